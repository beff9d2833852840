// Package discoverytest provides fakes for exercising the discovery engine
// without a database.
package discoverytest

import (
	"context"
	"sync"

	"waypoint/internal/adapter/repo/memory"
	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

// Repo wraps the in-memory repository, counting calls and failing any
// operation whose error field is set.
type Repo struct {
	Store *memory.Store
	inner memory.RegionRepo

	mu    sync.Mutex
	Calls map[string]int

	CreateErr     error
	UpdateErr     error
	DeleteErr     error
	RecordErr     error
	DiscoveredErr error
	AllErr        error
}

func NewRepo() *Repo {
	store := memory.NewStore()
	return &Repo{
		Store: store,
		inner: memory.NewRegionRepo(store),
		Calls: map[string]int{},
	}
}

func (r *Repo) count(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls[op]++
}

func (r *Repo) CallCount(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls[op]
}

func (r *Repo) Writes() int {
	return r.CallCount("create") + r.CallCount("update") + r.CallCount("delete") + r.CallCount("record")
}

func (r *Repo) CreateRegion(ctx context.Context, reg region.Region) error {
	r.count("create")
	if r.CreateErr != nil {
		return r.CreateErr
	}
	return r.inner.CreateRegion(ctx, reg)
}

func (r *Repo) UpdateRegion(ctx context.Context, reg region.Region) error {
	r.count("update")
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	return r.inner.UpdateRegion(ctx, reg)
}

func (r *Repo) DeleteRegion(ctx context.Context, id uuid.UUID) (int64, error) {
	r.count("delete")
	if r.DeleteErr != nil {
		return 0, r.DeleteErr
	}
	return r.inner.DeleteRegion(ctx, id)
}

func (r *Repo) RecordDiscovery(ctx context.Context, playerID, regionID uuid.UUID) error {
	r.count("record")
	if r.RecordErr != nil {
		return r.RecordErr
	}
	return r.inner.RecordDiscovery(ctx, playerID, regionID)
}

func (r *Repo) RegionsDiscoveredBy(ctx context.Context, playerID uuid.UUID) ([]region.Region, error) {
	r.count("discovered")
	if r.DiscoveredErr != nil {
		return nil, r.DiscoveredErr
	}
	return r.inner.RegionsDiscoveredBy(ctx, playerID)
}

func (r *Repo) AllRegions(ctx context.Context) ([]region.Region, error) {
	r.count("all")
	if r.AllErr != nil {
		return nil, r.AllErr
	}
	return r.inner.AllRegions(ctx)
}

var _ ports.RegionRepository = (*Repo)(nil)
