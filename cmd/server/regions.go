package main

import (
	"fmt"
	"io"
	"strings"

	httpadapter "waypoint/internal/adapter/http"
	"waypoint/internal/app/catalog"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRegionsCmd(configPath func() string) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Manage the region catalog of a running node as the console",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "", "node base URL (default: server.addr from the config)")
	cmd.AddCommand(
		newRegionsListCmd(configPath, &server),
		newRegionsCreateCmd(configPath, &server),
		newRegionsDeleteCmd(configPath, &server),
		newRegionsRenameCmd(configPath, &server),
		newRegionsReloadCmd(configPath, &server),
	)
	return cmd
}

func newRegionsListCmd(configPath func() string, server *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"?"},
		Short:   "List every region",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConsole(cmd, configPath, server, func(c *consoleClient) error {
				var resp httpadapter.ListRegionsResponse
				if err := c.do(cmd.Context(), consts.MethodGet, "/api/regions", nil, &resp); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Regions) == 0 {
					fmt.Fprintln(out, "No regions")
					return nil
				}
				for _, r := range resp.Regions {
					writeRegion(out, r)
				}
				return nil
			})
		},
	}
}

func newRegionsCreateCmd(configPath func() string, server *string) *cobra.Command {
	var (
		worldID    string
		x1, z1     int
		x2, z2     int
		tx, ty, tz float64
	)
	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"+"},
		Short:   "Create a region from two corners and a teleport point",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := uuid.Parse(worldID)
			if err != nil {
				return fmt.Errorf("--world: %w", err)
			}
			return withConsole(cmd, configPath, server, func(c *consoleClient) error {
				req := httpadapter.CreateRegionRequest{
					Name:      args[0],
					WorldID:   world,
					X1:        x1,
					Z1:        z1,
					X2:        x2,
					Z2:        z2,
					TeleportX: tx,
					TeleportY: ty,
					TeleportZ: tz,
				}
				var created httpadapter.RegionView
				if err := c.do(cmd.Context(), consts.MethodPost, "/api/regions", req, &created); err != nil {
					return err
				}
				writeRegion(cmd.OutOrStdout(), created)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&worldID, "world", "", "world id")
	f.IntVar(&x1, "x1", 0, "first corner x")
	f.IntVar(&z1, "z1", 0, "first corner z")
	f.IntVar(&x2, "x2", 0, "second corner x")
	f.IntVar(&z2, "z2", 0, "second corner z")
	f.Float64Var(&tx, "tx", 0, "teleport x")
	f.Float64Var(&ty, "ty", 0, "teleport y")
	f.Float64Var(&tz, "tz", 0, "teleport z")
	_ = cmd.MarkFlagRequired("world")
	return cmd
}

func newRegionsDeleteCmd(configPath func() string, server *string) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a region; discovery records are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, configPath, server, func(c *consoleClient) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					// Names resolve to the first exact match in catalog order.
					var resp httpadapter.ListRegionsResponse
					if err := c.do(cmd.Context(), consts.MethodGet, "/api/regions", nil, &resp); err != nil {
						return err
					}
					found := false
					for _, r := range resp.Regions {
						if r.Name == args[0] {
							id, found = r.ID, true
							break
						}
					}
					if !found {
						return fmt.Errorf("region %q not found", args[0])
					}
				}
				if err := c.do(cmd.Context(), consts.MethodDelete, "/api/regions/"+id.String(), nil, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted region %s\n", id)
				return nil
			})
		},
	}
}

func newRegionsRenameCmd(configPath func() string, server *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <from> <to>",
		Aliases: []string{"~"},
		Short:   "Rename the first region with an exact name match",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, configPath, server, func(c *consoleClient) error {
				var renamed httpadapter.RegionView
				req := httpadapter.RenameRegionRequest{From: args[0], To: args[1]}
				if err := c.do(cmd.Context(), consts.MethodPost, "/api/regions/rename", req, &renamed); err != nil {
					return err
				}
				writeRegion(cmd.OutOrStdout(), renamed)
				return nil
			})
		},
	}
}

func newRegionsReloadCmd(configPath func() string, server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Make the node and its peers reload regions from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConsole(cmd, configPath, server, func(c *consoleClient) error {
				var resp catalog.ReloadResponse
				if err := c.do(cmd.Context(), consts.MethodPost, "/api/regions/reload", nil, &resp); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d region(s)\n", resp.Count)
				return nil
			})
		},
	}
}

func writeRegion(w io.Writer, r httpadapter.RegionView) {
	fmt.Fprintln(w, formatRegion(r))
}

func formatRegion(r httpadapter.RegionView) string {
	worldName := r.WorldName
	if worldName == "" {
		worldName = r.WorldID.String()
	}
	creator := "console"
	if r.CreatorID != uuid.Nil {
		creator = r.CreatorID.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (by %s)\n", r.Name, creator)
	fmt.Fprintf(&b, "  id:       %s\n", r.ID)
	fmt.Fprintf(&b, "  world:    %s\n", worldName)
	fmt.Fprintf(&b, "  min:      %d, %d\n", r.XMin, r.ZMin)
	fmt.Fprintf(&b, "  max:      %d, %d\n", r.XMax, r.ZMax)
	fmt.Fprintf(&b, "  teleport: %.2f, %.2f, %.2f", r.TeleportX, r.TeleportY, r.TeleportZ)
	return b.String()
}
