package memory

import (
	"context"
	"fmt"
	"slices"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type RegionRepo struct {
	store *Store
}

func NewRegionRepo(store *Store) RegionRepo {
	return RegionRepo{store: store}
}

func (r RegionRepo) CreateRegion(_ context.Context, reg region.Region) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.regions[reg.ID]; ok {
		return ports.StorageError("create region", fmt.Errorf("duplicate id %s", reg.ID))
	}
	r.store.regions[reg.ID] = reg
	return nil
}

func (r RegionRepo) UpdateRegion(_ context.Context, reg region.Region) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.regions[reg.ID]; !ok {
		return nil
	}
	r.store.regions[reg.ID] = reg
	return nil
}

func (r RegionRepo) DeleteRegion(_ context.Context, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.regions[id]; !ok {
		return 0, nil
	}
	delete(r.store.regions, id)
	return 1, nil
}

func (r RegionRepo) RecordDiscovery(_ context.Context, playerID, regionID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.discoveries = append(r.store.discoveries, discoveryRow{
		PlayerID:     playerID,
		RegionID:     regionID,
		DiscoveredAt: r.store.now(),
	})
	return nil
}

func (r RegionRepo) RegionsDiscoveredBy(_ context.Context, playerID uuid.UUID) ([]region.Region, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []region.Region{}
	for _, d := range r.store.discoveries {
		if d.PlayerID != playerID {
			continue
		}
		// Rows pointing at deleted regions drop out of the join.
		if reg, ok := r.store.regions[d.RegionID]; ok {
			out = append(out, reg)
		}
	}
	slices.SortFunc(out, region.Compare)
	return out, nil
}

func (r RegionRepo) AllRegions(_ context.Context) ([]region.Region, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]region.Region, 0, len(r.store.regions))
	for _, reg := range r.store.regions {
		out = append(out, reg)
	}
	slices.SortFunc(out, region.Compare)
	return out, nil
}

var _ ports.RegionRepository = RegionRepo{}
