package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	natsbus "waypoint/internal/adapter/bus/nats"
	httpadapter "waypoint/internal/adapter/http"
	"waypoint/internal/app/dispatch"
	"waypoint/internal/app/movement"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
)

const dispatchBuffer = 256

func newServeCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, metrics listener and NATS subscribers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap(cmd.Context(), configPath(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()
			return serve(cmd.Context(), e)
		},
	}
}

func serve(ctx context.Context, e *engine) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := dispatch.NewLoop(dispatchBuffer)
	go loop.Run(runCtx)

	if e.bus != nil {
		if err := subscribe(e, loop); err != nil {
			return err
		}
	}

	metricsSrv := &http.Server{Addr: e.cfg.Server.MetricsAddr, Handler: metricsMux(e), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.logger.Info("metrics listening", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics listener", "err", err)
		}
	}()

	s := newAPIServer(e, loop)

	e.logger.Info("waypoint listening", "addr", e.cfg.Server.Addr, "worlds", len(e.cfg.Worlds), "nats", e.bus != nil)
	s.Spin()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		e.logger.Warn("metrics shutdown", "err", err)
	}
	loop.Stop()
	<-loop.Done()
	return nil
}

func newAPIServer(e *engine, loop *dispatch.Loop) *server.Hertz {
	h := httpadapter.Handler{
		Loop:       loop,
		CatalogUC:  e.catalogUC,
		MovementUC: e.movementUC,
		TravelUC:   e.travelUC,
		Worlds:     e.worlds,
		Loader:     e.worlds,
		KPI:        e.kpi,
	}
	s := server.Default(server.WithHostPorts(e.cfg.Server.Addr))
	h.RegisterRoutes(s)
	return s
}

func metricsMux(e *engine) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.prom.Handler())
	return mux
}

// subscribe feeds peer catalog changes and remote movement events into the
// dispatch loop.
func subscribe(e *engine, loop *dispatch.Loop) error {
	err := e.bus.OnCatalogChanged(func(msg natsbus.CatalogChanged) {
		err := loop.Do(context.Background(), func(ctx context.Context) error {
			return e.catalogUC.ApplyRemoteChange(ctx, msg.Reason)
		})
		if err != nil {
			e.logger.Error("apply peer catalog change", "node", msg.NodeID, "reason", msg.Reason, "err", err)
		}
	})
	if err != nil {
		return err
	}
	return e.bus.OnMovement(func(msg natsbus.Movement) {
		err := loop.Do(context.Background(), func(ctx context.Context) error {
			_, err := e.movementUC.Execute(ctx, movement.Request{PlayerID: msg.PlayerID, From: msg.From, To: msg.To})
			return err
		})
		if err != nil {
			e.logger.Error("movement event", "player", msg.PlayerID, "err", err)
		}
	})
}
