package inmemory

import (
	"sync"

	"waypoint/internal/app/ports"
)

type Snapshot struct {
	DiscoveryTotal   uint64            `json:"discovery_total"`
	DiscoveryFailure uint64            `json:"discovery_failure"`
	TravelTotal      uint64            `json:"travel_total"`
	TravelByOutcome  map[string]uint64 `json:"travel_by_outcome"`
	Invalidations    map[string]uint64 `json:"invalidations"`
}

type Recorder struct {
	mu            sync.Mutex
	discoveries   uint64
	failures      uint64
	travel        map[string]uint64
	invalidations map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		travel:        map[string]uint64{},
		invalidations: map[string]uint64{},
	}
}

func (r *Recorder) RecordDiscovery() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoveries++
}

func (r *Recorder) RecordDiscoveryFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) RecordTravel(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.travel[outcome]++
}

func (r *Recorder) RecordInvalidation(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidations[reason]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		DiscoveryTotal:   r.discoveries,
		DiscoveryFailure: r.failures,
		TravelByOutcome:  make(map[string]uint64, len(r.travel)),
		Invalidations:    make(map[string]uint64, len(r.invalidations)),
	}
	for k, v := range r.travel {
		out.TravelByOutcome[k] = v
		out.TravelTotal += v
	}
	for k, v := range r.invalidations {
		out.Invalidations[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

var _ ports.DiscoveryMetrics = (*Recorder)(nil)
