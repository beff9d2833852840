package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"waypoint/internal/app/discovery"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid catalog request")
	ErrValidation     = errors.New("region validation failed")
)

const (
	ReasonCreate = "create"
	ReasonRename = "rename"
	ReasonDelete = "delete"
	ReasonReload = "reload"
	ReasonRemote = "remote"
)

// UseCase applies catalog mutations. Every mutation persists first and only
// touches memory once the store accepted it.
type UseCase struct {
	State       *discovery.State
	Broadcaster ports.CatalogBroadcaster
	Logger      *log.Logger
	NewID       func() uuid.UUID
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.WorldID == uuid.Nil {
		return CreateResponse{}, ErrInvalidRequest
	}
	r, err := region.New(u.newID(), region.Spec{
		Name:      name,
		WorldID:   req.WorldID,
		X1:        req.X1,
		Z1:        req.Z1,
		X2:        req.X2,
		Z2:        req.Z2,
		TeleportX: req.TeleportX,
		TeleportY: req.TeleportY,
		TeleportZ: req.TeleportZ,
		CreatorID: req.CreatorID,
	})
	if err != nil {
		return CreateResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := u.State.Regions.CreateRegion(ctx, r); err != nil {
		return CreateResponse{}, ports.StorageError("create region", err)
	}
	// A region nobody has entered yet cannot be in any index entry.
	u.State.Catalog.Add(r)
	u.logger().Info("region created", "region", r.Name, "region_id", r.ID, "world", r.WorldID)
	u.broadcast(ctx, ReasonCreate)
	return CreateResponse{Region: r}, nil
}

func (u UseCase) Rename(ctx context.Context, req RenameRequest) (RenameResponse, error) {
	to := strings.TrimSpace(req.To)
	if req.From == "" || to == "" {
		return RenameResponse{}, ErrInvalidRequest
	}
	current, ok := u.State.Catalog.FindFirstByName(req.From)
	if !ok {
		return RenameResponse{}, fmt.Errorf("region %q: %w", req.From, ports.ErrNotFound)
	}
	renamed := current.Renamed(to)
	if err := u.State.Regions.UpdateRegion(ctx, renamed); err != nil {
		return RenameResponse{}, ports.StorageError("rename region", err)
	}
	u.logger().Info("region renamed", "from", req.From, "to", to, "region_id", renamed.ID)
	if err := u.State.Refresh(ctx, ReasonRename); err != nil {
		return RenameResponse{}, err
	}
	u.broadcast(ctx, ReasonRename)
	return RenameResponse{Region: renamed}, nil
}

func (u UseCase) Delete(ctx context.Context, req DeleteRequest) error {
	if req.ID == uuid.Nil {
		return ErrInvalidRequest
	}
	n, err := u.State.Regions.DeleteRegion(ctx, req.ID)
	if err != nil {
		return ports.StorageError("delete region", err)
	}
	if n == 0 {
		return fmt.Errorf("region %s: %w", req.ID, ports.ErrNotFound)
	}
	u.logger().Info("region deleted", "region_id", req.ID)
	if err := u.State.Refresh(ctx, ReasonDelete); err != nil {
		return err
	}
	u.broadcast(ctx, ReasonDelete)
	return nil
}

// Reload rebuilds this node's caches from the store and asks peers to do
// the same.
func (u UseCase) Reload(ctx context.Context) (ReloadResponse, error) {
	if err := u.State.Refresh(ctx, ReasonReload); err != nil {
		return ReloadResponse{}, err
	}
	n := u.State.Catalog.Len()
	u.logger().Info("regions reloaded", "count", n)
	u.broadcast(ctx, ReasonReload)
	return ReloadResponse{Count: n}, nil
}

// ApplyRemoteChange rebuilds local caches after a peer mutated the shared
// store. It never re-broadcasts.
func (u UseCase) ApplyRemoteChange(ctx context.Context, reason string) error {
	if err := u.State.Refresh(ctx, ReasonRemote); err != nil {
		return err
	}
	u.logger().Debug("catalog refreshed from peer", "reason", reason, "count", u.State.Catalog.Len())
	return nil
}

func (u UseCase) List(ctx context.Context, req ListRequest) (ListResponse, error) {
	if req.PlayerID == uuid.Nil {
		return ListResponse{Regions: u.State.Catalog.All()}, nil
	}
	entry, err := u.State.Index.EntryFor(ctx, req.PlayerID)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Regions: entry.Slice()}, nil
}

func (u UseCase) broadcast(ctx context.Context, reason string) {
	if u.Broadcaster == nil {
		return
	}
	if err := u.Broadcaster.BroadcastCatalogChanged(ctx, reason); err != nil {
		u.logger().Warn("broadcast catalog change", "reason", reason, "err", err)
	}
}

func (u UseCase) newID() uuid.UUID {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.New()
}

func (u UseCase) logger() *log.Logger {
	if u.Logger == nil {
		return log.Default()
	}
	return u.Logger
}
