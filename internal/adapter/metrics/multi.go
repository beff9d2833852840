package metrics

import "waypoint/internal/app/ports"

// Multi forwards every observation to each recorder.
type Multi []ports.DiscoveryMetrics

func (m Multi) RecordDiscovery() {
	for _, r := range m {
		r.RecordDiscovery()
	}
}

func (m Multi) RecordDiscoveryFailure() {
	for _, r := range m {
		r.RecordDiscoveryFailure()
	}
}

func (m Multi) RecordTravel(outcome string) {
	for _, r := range m {
		r.RecordTravel(outcome)
	}
}

func (m Multi) RecordInvalidation(reason string) {
	for _, r := range m {
		r.RecordInvalidation(reason)
	}
}

var _ ports.DiscoveryMetrics = Multi{}
