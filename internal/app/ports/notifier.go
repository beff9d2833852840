package ports

import (
	"context"

	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type DiscoveryNotifier interface {
	NotifyDiscovered(ctx context.Context, playerID uuid.UUID, r region.Region)
}

// CatalogBroadcaster tells peer nodes sharing the same store that the
// region catalog changed and their caches must be rebuilt.
type CatalogBroadcaster interface {
	BroadcastCatalogChanged(ctx context.Context, reason string) error
}
