package travel

import (
	"context"
	"errors"
	"fmt"

	"waypoint/internal/app/discovery"
	"waypoint/internal/app/ports"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest   = errors.New("invalid travel request")
	ErrNotDiscovered    = errors.New("destination not discovered")
	ErrWorldUnavailable = errors.New("destination world unavailable")
)

// UseCase resolves a fast-travel destination among the regions a player has
// discovered. It only computes the target; moving the player is the caller's
// job.
type UseCase struct {
	State  *discovery.State
	Worlds ports.WorldRegistry
	Logger *log.Logger
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.PlayerID == uuid.Nil {
		return Response{}, ErrInvalidRequest
	}
	entry, err := u.State.Index.EntryFor(ctx, req.PlayerID)
	if err != nil {
		u.record(ports.TravelFailed)
		return Response{}, err
	}
	r, ok := entry.FindByName(req.Destination)
	if !ok {
		u.record(ports.TravelNotDiscovered)
		return Response{}, fmt.Errorf("%q: %w", req.Destination, ErrNotDiscovered)
	}
	if u.Worlds == nil || !u.Worlds.Available(r.WorldID) {
		u.record(ports.TravelWorldUnavailable)
		u.logger().Warn("travel target in unavailable world", "player", req.PlayerID, "region", r.Name, "world", r.WorldID)
		return Response{}, fmt.Errorf("world %s: %w", r.WorldID, ErrWorldUnavailable)
	}
	u.record(ports.TravelResolved)
	return Response{
		RegionID: r.ID,
		Name:     r.Name,
		WorldID:  r.WorldID,
		X:        r.TeleportX,
		Y:        r.TeleportY,
		Z:        r.TeleportZ,
	}, nil
}

func (u UseCase) record(outcome string) {
	if u.State.Metrics != nil {
		u.State.Metrics.RecordTravel(outcome)
	}
}

func (u UseCase) logger() *log.Logger {
	if u.Logger == nil {
		return log.Default()
	}
	return u.Logger
}
