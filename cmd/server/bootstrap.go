package main

import (
	"context"
	"fmt"
	"io"

	natsbus "waypoint/internal/adapter/bus/nats"
	"waypoint/internal/adapter/metrics"
	metricsinmem "waypoint/internal/adapter/metrics/inmemory"
	"waypoint/internal/adapter/metrics/prom"
	"waypoint/internal/adapter/notify"
	gormrepo "waypoint/internal/adapter/repo/gorm"
	"waypoint/internal/adapter/repo/memory"
	"waypoint/internal/adapter/world/static"
	"waypoint/internal/app/catalog"
	"waypoint/internal/app/discovery"
	"waypoint/internal/app/movement"
	"waypoint/internal/app/ports"
	"waypoint/internal/app/travel"
	"waypoint/internal/config"

	"github.com/charmbracelet/log"
)

// engine is everything a serving node builds from its config file.
type engine struct {
	cfg    config.Config
	logger *log.Logger
	state  *discovery.State
	worlds *static.Registry
	kpi    *metricsinmem.Recorder
	prom   *prom.Recorder
	bus    *natsbus.Bus

	catalogUC  catalog.UseCase
	movementUC movement.UseCase
	travelUC   travel.UseCase
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "waypoint",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", level)
	}
	return logger
}

func bootstrap(ctx context.Context, path string, logOut io.Writer) (*engine, error) {
	cfg, wrote, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger := newLogger(logOut, cfg.Log.Level)
	if wrote {
		logger.Info("wrote default config", "path", path)
	}

	repo, err := openRepo(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	e := &engine{
		cfg:    cfg,
		logger: logger,
		worlds: buildWorlds(cfg.Worlds),
		kpi:    metricsinmem.NewRecorder(),
		prom:   prom.NewRecorder(),
	}
	e.state = discovery.NewState(repo, metrics.Multi{e.kpi, e.prom})

	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(natsbus.Config{
			URL:           cfg.NATS.URL,
			NodeID:        cfg.NATS.NodeID,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		e.bus = bus
	}

	var notifier ports.DiscoveryNotifier = notify.Log{Logger: logger.With("component", "discovery")}
	var broadcaster ports.CatalogBroadcaster
	if e.bus != nil {
		notifier = notify.Fanout{notifier, e.bus}
		broadcaster = e.bus
	}
	e.catalogUC = catalog.UseCase{State: e.state, Broadcaster: broadcaster, Logger: logger.With("component", "catalog")}
	e.movementUC = movement.UseCase{State: e.state, Notifier: notifier, Logger: logger.With("component", "movement")}
	e.travelUC = travel.UseCase{State: e.state, Worlds: e.worlds, Logger: logger.With("component", "travel")}

	if err := e.state.Catalog.LoadAll(ctx); err != nil {
		e.close()
		return nil, fmt.Errorf("load regions: %w", err)
	}
	logger.Info("regions loaded", "count", e.state.Catalog.Len())
	return e, nil
}

func openRepo(ctx context.Context, db config.DatabaseConfig, logger *log.Logger) (ports.RegionRepository, error) {
	switch db.Driver {
	case config.DriverPostgres:
		conn, err := gormrepo.OpenPostgres(ctx, db.DSN, logger)
		if err != nil {
			return nil, err
		}
		if err := gormrepo.ApplyMigrations(ctx, conn, gormrepo.Migrations()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return gormrepo.NewRegionRepo(conn), nil
	default:
		logger.Warn("using in-memory store; regions and discoveries are lost on exit")
		return memory.NewRegionRepo(memory.NewStore()), nil
	}
}

func buildWorlds(worlds []config.WorldConfig) *static.Registry {
	out := make([]static.World, 0, len(worlds))
	for _, w := range worlds {
		out = append(out, static.World{ID: w.ID, Name: w.Name})
	}
	return static.NewRegistry(out...)
}

func (e *engine) close() {
	if e.bus != nil {
		e.bus.Close()
	}
}
