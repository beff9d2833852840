// Package natsbus links waypoint nodes that share one region store. Nodes
// broadcast catalog changes so peers rebuild their caches, publish discovery
// notifications, and accept movement events from game servers.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"waypoint/internal/app/ports"
	"waypoint/internal/domain/region"
	"waypoint/internal/domain/world"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	defaultPrefix        = "waypoint"
	defaultMaxReconnects = 10
	defaultReconnectWait = 2 * time.Second
)

type Config struct {
	URL           string
	NodeID        string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

type CatalogChanged struct {
	NodeID string    `json:"node_id"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

type Discovered struct {
	NodeID     string    `json:"node_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	RegionID   uuid.UUID `json:"region_id"`
	RegionName string    `json:"region_name"`
	WorldID    uuid.UUID `json:"world_id"`
	At         time.Time `json:"at"`
}

type Movement struct {
	PlayerID uuid.UUID      `json:"player_id"`
	From     world.Position `json:"from"`
	To       world.Position `json:"to"`
}

type Bus struct {
	conn   *nats.Conn
	prefix string
	nodeID string
	logger *log.Logger
	now    func() time.Time
	subs   []*nats.Subscription
}

func Connect(cfg Config, logger *log.Logger) (*Bus, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "nats")
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = defaultMaxReconnects
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = defaultReconnectWait
	}
	opts := []nats.Option{
		nats.Name("waypoint-" + cfg.NodeID),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info("connection closed")
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}
	return newBus(conn, cfg, logger), nil
}

func newBus(conn *nats.Conn, cfg Config, logger *log.Logger) *Bus {
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	if logger == nil {
		logger = log.Default()
	}
	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}
	return &Bus{conn: conn, prefix: prefix, nodeID: nodeID, logger: logger, now: time.Now}
}

func (b *Bus) NodeID() string { return b.nodeID }

func (b *Bus) CatalogSubject() string    { return b.prefix + ".catalog" }
func (b *Bus) DiscoveredSubject() string { return b.prefix + ".discovered" }
func (b *Bus) MovementSubject() string   { return b.prefix + ".movement" }

func (b *Bus) BroadcastCatalogChanged(_ context.Context, reason string) error {
	return b.publish(b.CatalogSubject(), CatalogChanged{NodeID: b.nodeID, Reason: reason, At: b.now().UTC()})
}

func (b *Bus) NotifyDiscovered(_ context.Context, playerID uuid.UUID, r region.Region) {
	msg := Discovered{
		NodeID:     b.nodeID,
		PlayerID:   playerID,
		RegionID:   r.ID,
		RegionName: r.Name,
		WorldID:    r.WorldID,
		At:         b.now().UTC(),
	}
	if err := b.publish(b.DiscoveredSubject(), msg); err != nil {
		b.logger.Warn("publish discovery", "player", playerID, "region", r.Name, "err", err)
	}
}

func (b *Bus) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := b.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// OnCatalogChanged calls fn for every catalog change announced by another
// node. Messages from this node are skipped.
func (b *Bus) OnCatalogChanged(fn func(CatalogChanged)) error {
	sub, err := b.conn.Subscribe(b.CatalogSubject(), func(m *nats.Msg) {
		msg, ok, err := decodeCatalogChanged(m.Data, b.nodeID)
		if err != nil {
			b.logger.Error("decode catalog change", "err", err)
			return
		}
		if !ok {
			return
		}
		fn(msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.CatalogSubject(), err)
	}
	b.subs = append(b.subs, sub)
	return nil
}

// OnMovement calls fn for every movement event published by game servers.
func (b *Bus) OnMovement(fn func(Movement)) error {
	sub, err := b.conn.Subscribe(b.MovementSubject(), func(m *nats.Msg) {
		msg, err := decodeMovement(m.Data)
		if err != nil {
			b.logger.Error("decode movement", "err", err)
			return
		}
		fn(msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.MovementSubject(), err)
	}
	b.subs = append(b.subs, sub)
	return nil
}

func (b *Bus) Close() {
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Debug("unsubscribe", "subject", sub.Subject, "err", err)
		}
	}
	b.subs = nil
	b.conn.Close()
}

func decodeCatalogChanged(data []byte, self string) (CatalogChanged, bool, error) {
	var msg CatalogChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return CatalogChanged{}, false, err
	}
	if msg.NodeID == self {
		return msg, false, nil
	}
	return msg, true, nil
}

func decodeMovement(data []byte) (Movement, error) {
	var msg Movement
	if err := json.Unmarshal(data, &msg); err != nil {
		return Movement{}, err
	}
	if msg.PlayerID == uuid.Nil {
		return Movement{}, fmt.Errorf("movement without player_id")
	}
	return msg, nil
}

var (
	_ ports.CatalogBroadcaster = (*Bus)(nil)
	_ ports.DiscoveryNotifier  = (*Bus)(nil)
)
