package discoverytest

import (
	"context"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"

	"github.com/google/uuid"
)

type Notification struct {
	PlayerID uuid.UUID
	Region   region.Region
}

type Notifier struct {
	Sent []Notification
}

func (n *Notifier) NotifyDiscovered(_ context.Context, playerID uuid.UUID, r region.Region) {
	n.Sent = append(n.Sent, Notification{PlayerID: playerID, Region: r})
}

type Broadcaster struct {
	Reasons []string
	Err     error
}

func (b *Broadcaster) BroadcastCatalogChanged(_ context.Context, reason string) error {
	b.Reasons = append(b.Reasons, reason)
	return b.Err
}

type Worlds map[uuid.UUID]string

func (w Worlds) Available(id uuid.UUID) bool {
	_, ok := w[id]
	return ok
}

func (w Worlds) Name(id uuid.UUID) (string, bool) {
	name, ok := w[id]
	return name, ok
}

type Metrics struct {
	Discoveries   int
	Failures      int
	Travel        map[string]int
	Invalidations map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{Travel: map[string]int{}, Invalidations: map[string]int{}}
}

func (m *Metrics) RecordDiscovery()                 { m.Discoveries++ }
func (m *Metrics) RecordDiscoveryFailure()          { m.Failures++ }
func (m *Metrics) RecordTravel(outcome string)      { m.Travel[outcome]++ }
func (m *Metrics) RecordInvalidation(reason string) { m.Invalidations[reason]++ }

var (
	_ ports.DiscoveryNotifier  = (*Notifier)(nil)
	_ ports.CatalogBroadcaster = (*Broadcaster)(nil)
	_ ports.WorldRegistry      = Worlds{}
	_ ports.DiscoveryMetrics   = (*Metrics)(nil)
)
