package ports

import (
	"context"

	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type RegionRepository interface {
	CreateRegion(ctx context.Context, r region.Region) error
	// UpdateRegion rewrites every mutable column of the row with r.ID. An
	// unknown id affects zero rows and is not an error.
	UpdateRegion(ctx context.Context, r region.Region) error
	DeleteRegion(ctx context.Context, id uuid.UUID) (int64, error)
	RecordDiscovery(ctx context.Context, playerID, regionID uuid.UUID) error
	RegionsDiscoveredBy(ctx context.Context, playerID uuid.UUID) ([]region.Region, error)
	AllRegions(ctx context.Context) ([]region.Region, error)
}
