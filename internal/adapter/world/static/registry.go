package static

import (
	"sync"

	"waypoint/internal/app/ports"

	"github.com/google/uuid"
)

type World struct {
	ID   uuid.UUID
	Name string
}

// Registry is a fixed list of worlds from configuration. Worlds can be
// marked unloaded at runtime; their regions then stay listed but cannot be
// travelled to.
type Registry struct {
	mu       sync.RWMutex
	names    map[uuid.UUID]string
	unloaded map[uuid.UUID]bool
}

func NewRegistry(worlds ...World) *Registry {
	r := &Registry{
		names:    make(map[uuid.UUID]string, len(worlds)),
		unloaded: map[uuid.UUID]bool{},
	}
	for _, w := range worlds {
		r.names[w.ID] = w.Name
	}
	return r
}

func (r *Registry) Available(worldID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[worldID]
	return ok && !r.unloaded[worldID]
}

func (r *Registry) Name(worldID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[worldID]
	return name, ok
}

// SetLoaded records a host world load or unload. It reports false for a
// world that is not configured.
func (r *Registry) SetLoaded(worldID uuid.UUID, loaded bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[worldID]; !ok {
		return false
	}
	if loaded {
		delete(r.unloaded, worldID)
	} else {
		r.unloaded[worldID] = true
	}
	return true
}

var _ ports.WorldRegistry = (*Registry)(nil)
