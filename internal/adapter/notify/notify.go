package notify

import (
	"context"
	"fmt"
	"strings"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Title is the banner shown to a player who discovers a region.
func Title(r region.Region) string {
	return fmt.Sprintf("- %s discovered -", strings.ToLower(r.Name))
}

// Log writes discovery banners to the server log. It stands in for the
// in-game title until a client channel exists.
type Log struct {
	Logger *log.Logger
}

func (n Log) NotifyDiscovered(_ context.Context, playerID uuid.UUID, r region.Region) {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info(Title(r), "player", playerID, "region_id", r.ID, "world", r.WorldID)
}

// Fanout delivers each notification to every target in order.
type Fanout []ports.DiscoveryNotifier

func (f Fanout) NotifyDiscovered(ctx context.Context, playerID uuid.UUID, r region.Region) {
	for _, n := range f {
		if n != nil {
			n.NotifyDiscovered(ctx, playerID, r)
		}
	}
}

var (
	_ ports.DiscoveryNotifier = Log{}
	_ ports.DiscoveryNotifier = Fanout{}
)
