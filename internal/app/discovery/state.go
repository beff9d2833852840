// Package discovery holds the engine state shared by the catalog, movement
// and travel use cases.
//
// None of the types here lock. Every call must come from one goroutine at a
// time; the server funnels them through dispatch.Loop.
package discovery

import (
	"context"

	"waypoint/internal/app/ports"
)

type State struct {
	Regions ports.RegionRepository
	Catalog *Catalog
	Index   *Index
	// Metrics may be nil.
	Metrics ports.DiscoveryMetrics
}

func NewState(repo ports.RegionRepository, metrics ports.DiscoveryMetrics) *State {
	return &State{
		Regions: repo,
		Catalog: NewCatalog(repo),
		Index:   NewIndex(repo),
		Metrics: metrics,
	}
}

// Refresh reloads the catalog and drops every cached index entry. The index
// is cleared even when the reload fails so no entry outlives a mutation.
func (s *State) Refresh(ctx context.Context, reason string) error {
	err := s.Catalog.LoadAll(ctx)
	s.Index.InvalidateAll()
	if s.Metrics != nil {
		s.Metrics.RecordInvalidation(reason)
	}
	return err
}
