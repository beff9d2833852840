package movement

import (
	"context"
	"errors"

	"waypoint/internal/app/discovery"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"
	"waypoint/internal/domain/world"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid movement request")

// UseCase turns position changes into region discoveries.
type UseCase struct {
	State    *discovery.State
	Notifier ports.DiscoveryNotifier
	Logger   *log.Logger
}

// Execute evaluates one position change. Storage failures on this path are
// logged and swallowed: the player simply has not discovered the region yet
// and the next qualifying move retries.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.PlayerID == uuid.Nil {
		return Response{}, ErrInvalidRequest
	}
	if !world.CrossesCell(req.From, req.To) {
		return Response{}, nil
	}
	resp := Response{CrossedCell: true, Discovered: []region.Region{}}

	entry, err := u.State.Index.EntryFor(ctx, req.PlayerID)
	if err != nil {
		u.logger().Error("load discovered regions", "player", req.PlayerID, "err", err)
		u.recordFailure()
		return resp, nil
	}

	for _, r := range u.State.Catalog.All() {
		if !r.ContainsPosition(req.To) || entry.Contains(r.ID) {
			continue
		}
		if u.discover(ctx, req.PlayerID, r) {
			resp.Discovered = append(resp.Discovered, r)
		}
	}
	return resp, nil
}

func (u UseCase) discover(ctx context.Context, playerID uuid.UUID, r region.Region) bool {
	if err := u.State.Regions.RecordDiscovery(ctx, playerID, r.ID); err != nil {
		u.logger().Error("record discovery", "player", playerID, "region", r.Name, "region_id", r.ID, "err", ports.StorageError("record discovery", err))
		u.recordFailure()
		return false
	}
	if u.Notifier != nil {
		u.Notifier.NotifyDiscovered(ctx, playerID, r)
	}
	u.State.Index.MarkDiscovered(playerID, r)
	if u.State.Metrics != nil {
		u.State.Metrics.RecordDiscovery()
	}
	return true
}

func (u UseCase) recordFailure() {
	if u.State.Metrics != nil {
		u.State.Metrics.RecordDiscoveryFailure()
	}
}

func (u UseCase) logger() *log.Logger {
	if u.Logger == nil {
		return log.Default()
	}
	return u.Logger
}
