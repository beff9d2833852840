package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"waypoint/internal/app/catalog"
	"waypoint/internal/app/dispatch"
	"waypoint/internal/app/movement"
	"waypoint/internal/app/ports"
	"waypoint/internal/app/travel"
	"waypoint/internal/domain/region"
	"waypoint/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

const playerIDHeader = "X-Player-ID"

// Handler exposes the discovery engine over HTTP. Every engine call is
// funnelled through Loop when one is set.
type Handler struct {
	Loop       *dispatch.Loop
	CatalogUC  catalog.UseCase
	MovementUC movement.UseCase
	TravelUC   travel.UseCase
	Worlds     ports.WorldRegistry
	Loader     worldLoader
	KPI        kpiSnapshotProvider
}

// worldLoader is told when the host loads or unloads a world.
type worldLoader interface {
	SetLoaded(worldID uuid.UUID, loaded bool) bool
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	s.GET("/api/regions", h.listRegions)
	s.POST("/api/regions", h.createRegion)

	regions := s.Group("/api/regions")
	regions.DELETE("/:id", h.deleteRegion)
	regions.POST("/rename", h.renameRegion)
	regions.POST("/reload", h.reloadRegions)

	worlds := s.Group("/api/worlds")
	worlds.POST("/:id/load", h.setWorldLoaded(true))
	worlds.POST("/:id/unload", h.setWorldLoaded(false))

	s.POST("/api/players/move", h.move)
	s.POST("/api/travel", h.travel)
	s.GET("/ops/kpi", h.kpi)
}

// Request and response bodies below are also decoded by the console client.

type CreateRegionRequest struct {
	Name      string    `json:"name"`
	WorldID   uuid.UUID `json:"world_id"`
	X1        int       `json:"x1"`
	Z1        int       `json:"z1"`
	X2        int       `json:"x2"`
	Z2        int       `json:"z2"`
	TeleportX float64   `json:"teleport_x"`
	TeleportY float64   `json:"teleport_y"`
	TeleportZ float64   `json:"teleport_z"`
}

type RenameRegionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveRequest struct {
	From world.Position `json:"from"`
	To   world.Position `json:"to"`
}

type travelRequest struct {
	Destination string `json:"destination"`
}

type RegionView struct {
	region.Region
	WorldName string `json:"world_name,omitempty"`
}

type WorldView struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Loaded bool      `json:"loaded"`
}

type ListRegionsResponse struct {
	Regions []RegionView `json:"regions"`
}

func (h Handler) listRegions(c context.Context, ctx *app.RequestContext) {
	playerID, err := optionalPlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var resp catalog.ListResponse
	err = h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.CatalogUC.List(c, catalog.ListRequest{PlayerID: playerID})
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := ListRegionsResponse{Regions: make([]RegionView, 0, len(resp.Regions))}
	for _, r := range resp.Regions {
		out.Regions = append(out.Regions, h.view(r))
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) createRegion(c context.Context, ctx *app.RequestContext) {
	creatorID, err := optionalPlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body CreateRegionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	var resp catalog.CreateResponse
	err = h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.CatalogUC.Create(c, catalog.CreateRequest{
			Name:      body.Name,
			WorldID:   body.WorldID,
			X1:        body.X1,
			Z1:        body.Z1,
			X2:        body.X2,
			Z2:        body.Z2,
			TeleportX: body.TeleportX,
			TeleportY: body.TeleportY,
			TeleportZ: body.TeleportZ,
			CreatorID: creatorID,
		})
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, h.view(resp.Region))
}

func (h Handler) deleteRegion(c context.Context, ctx *app.RequestContext) {
	id, err := uuid.Parse(strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_region_id", "invalid region id")
		return
	}
	err = h.run(c, func(c context.Context) error {
		return h.CatalogUC.Delete(c, catalog.DeleteRequest{ID: id})
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) renameRegion(c context.Context, ctx *app.RequestContext) {
	var body RenameRegionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	var resp catalog.RenameResponse
	err := h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.CatalogUC.Rename(c, catalog.RenameRequest{From: body.From, To: body.To})
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.view(resp.Region))
}

func (h Handler) reloadRegions(c context.Context, ctx *app.RequestContext) {
	var resp catalog.ReloadResponse
	err := h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.CatalogUC.Reload(c)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) move(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body moveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	var resp movement.Response
	err = h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.MovementUC.Execute(c, movement.Request{PlayerID: playerID, From: body.From, To: body.To})
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) travel(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body travelRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	var resp travel.Response
	err = h.run(c, func(c context.Context) error {
		var err error
		resp, err = h.TravelUC.Execute(c, travel.Request{PlayerID: playerID, Destination: body.Destination})
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setWorldLoaded(loaded bool) app.HandlerFunc {
	return func(_ context.Context, ctx *app.RequestContext) {
		if h.Loader == nil {
			writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "world loader not configured")
			return
		}
		id, err := uuid.Parse(strings.TrimSpace(ctx.Param("id")))
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_world_id", "invalid world id")
			return
		}
		if !h.Loader.SetLoaded(id, loaded) {
			writeErrorBody(ctx, consts.StatusNotFound, "unknown_world", "world is not configured")
			return
		}
		v := WorldView{ID: id, Loaded: loaded}
		if h.Worlds != nil {
			v.Name, _ = h.Worlds.Name(id)
		}
		ctx.JSON(consts.StatusOK, v)
	}
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) run(c context.Context, fn func(context.Context) error) error {
	if h.Loop == nil {
		return fn(c)
	}
	return h.Loop.Do(c, fn)
}

func (h Handler) view(r region.Region) RegionView {
	v := RegionView{Region: r}
	if h.Worlds != nil {
		v.WorldName, _ = h.Worlds.Name(r.WorldID)
	}
	return v
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerID = errors.New("missing x-player-id header")
var ErrInvalidPlayerID = errors.New("invalid x-player-id header")

// optionalPlayerID returns uuid.Nil when the header is absent, which the
// use cases treat as the console.
func optionalPlayerID(ctx *app.RequestContext) (uuid.UUID, error) {
	raw := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidPlayerID
	}
	return id, nil
}

func requirePlayerID(ctx *app.RequestContext) (uuid.UUID, error) {
	id, err := optionalPlayerID(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrMissingPlayerID
	}
	return id, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, ErrInvalidPlayerID):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_player_id", err.Error())
	case errors.Is(err, catalog.ErrValidation):
		writeErrorBody(ctx, consts.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, catalog.ErrInvalidRequest),
		errors.Is(err, movement.ErrInvalidRequest),
		errors.Is(err, travel.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, travel.ErrNotDiscovered):
		writeErrorBody(ctx, consts.StatusNotFound, "not_discovered", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, travel.ErrWorldUnavailable):
		writeErrorBody(ctx, consts.StatusConflict, "world_unavailable", err.Error())
	case errors.Is(err, ports.ErrStorage):
		writeErrorBody(ctx, consts.StatusInternalServerError, "storage_error", "storage error")
	case errors.Is(err, dispatch.ErrStopped):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "shutting_down", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
