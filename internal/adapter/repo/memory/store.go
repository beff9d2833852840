package memory

import (
	"sync"
	"time"

	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type discoveryRow struct {
	PlayerID     uuid.UUID
	RegionID     uuid.UUID
	DiscoveredAt time.Time
}

type Store struct {
	mu          sync.RWMutex
	regions     map[uuid.UUID]region.Region
	discoveries []discoveryRow
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		regions: make(map[uuid.UUID]region.Region),
		now:     time.Now,
	}
}

func (s *Store) SeedRegion(r region.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[r.ID] = r
}

// DiscoveryCount returns how many discovery rows exist for the pair,
// including duplicates.
func (s *Store) DiscoveryCount(playerID, regionID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.discoveries {
		if d.PlayerID == playerID && d.RegionID == regionID {
			n++
		}
	}
	return n
}
