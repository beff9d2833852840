package discovery

import (
	"context"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

// Index caches, per player, the regions that player has discovered. Entries
// are filled lazily from the store and dropped wholesale on invalidation.
type Index struct {
	repo    ports.RegionRepository
	entries map[uuid.UUID]*region.Set
}

func NewIndex(repo ports.RegionRepository) *Index {
	return &Index{repo: repo, entries: map[uuid.UUID]*region.Set{}}
}

// EntryFor returns the player's discovered set, loading it on a miss. A
// failed load is not cached.
func (i *Index) EntryFor(ctx context.Context, playerID uuid.UUID) (region.Set, error) {
	if entry, ok := i.entries[playerID]; ok {
		return *entry, nil
	}
	regions, err := i.repo.RegionsDiscoveredBy(ctx, playerID)
	if err != nil {
		return region.Set{}, ports.StorageError("load discovered regions", err)
	}
	entry := region.NewSet(regions...)
	i.entries[playerID] = &entry
	return entry, nil
}

func (i *Index) MarkDiscovered(playerID uuid.UUID, r region.Region) {
	entry, ok := i.entries[playerID]
	if !ok {
		return
	}
	entry.Add(r)
}

func (i *Index) InvalidateAll() {
	clear(i.entries)
}

func (i *Index) Cached(playerID uuid.UUID) bool {
	_, ok := i.entries[playerID]
	return ok
}

func (i *Index) Len() int {
	return len(i.entries)
}
