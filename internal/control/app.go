// Package control is the composition root: it wires the resilience
// subsystem from configuration and owns its lifecycle. Nothing here is
// a global; every dependency is constructed and passed explicitly.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/jamlando/joanie-resilience/internal/core/config"
	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/core/worker"
	redisclient "github.com/jamlando/joanie-resilience/internal/infra/redis"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
	"github.com/jamlando/joanie-resilience/internal/infra/storage/memory"
	"github.com/jamlando/joanie-resilience/internal/infra/storage/postgres"
	"github.com/jamlando/joanie-resilience/internal/resilience/analytics"
	"github.com/jamlando/joanie-resilience/internal/resilience/flow"
	"github.com/jamlando/joanie-resilience/internal/resilience/health"
	"github.com/jamlando/joanie-resilience/internal/resilience/queue"
	"github.com/jamlando/joanie-resilience/internal/resilience/reachability"
)

// App owns the wired subsystem.
type App struct {
	cfg      *config.AppConfig
	queue    *queue.Queue
	engine   *flow.Engine
	recorder *analytics.Recorder
	reach    *reachability.Monitor
	monitor  *health.Monitor
	server   *health.Server
	pruner   *worker.Pruner
	db       *postgres.DB
	redis    *redisclient.Client
	log      *slog.Logger

	cancel context.CancelFunc
}

// New builds the application from configuration. Storage picks the
// first configured backend: postgres, then redis, then memory.
func New(cfg *config.AppConfig) (*App, error) {
	app := &App{
		cfg: cfg,
		log: slog.With("component", "app"),
	}

	var queueStore storage.QueueStore
	var eventSink analytics.Sink

	switch {
	case cfg.Database.URL != "":
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		app.db = db
		queueStore = postgres.NewQueueStore(db)
		eventStore := postgres.NewEventStore(db)
		eventSink = &storeSink{store: eventStore}
		app.pruner = worker.NewPruner(cfg.Analytics.Retention, eventStore)
		app.log.Info("using PostgreSQL storage")

	case cfg.Redis.URL != "":
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.redis = client
		queueStore = redisclient.NewQueueStore(client)
		eventSink = analytics.NewLogSink()
		app.log.Info("using Redis storage")

	default:
		queueStore = memory.NewQueueStore()
		eventSink = analytics.NewLogSink()
		app.log.Warn("no storage configured, queue will not survive restarts")
	}

	app.recorder = analytics.NewRecorder(eventSink)
	app.reach = reachability.NewMonitor(cfg.Reachability.Debounce)
	app.queue = queue.New(cfg.Queue, queueStore, app.reach, app.recorder, nil)
	app.engine = flow.NewEngine(app.recorder, nil)
	app.monitor = health.NewMonitor(app.queue, app.engine, app.reach)
	app.server = health.NewServer(app.monitor, app.queue, app.reach, cfg.Server.Port)

	return app, nil
}

// Queue exposes the offline error queue to collaborators.
func (a *App) Queue() *queue.Queue { return a.queue }

// Flows exposes the recovery flow engine.
func (a *App) Flows() *flow.Engine { return a.engine }

// Recorder exposes the analytics recorder.
func (a *App) Recorder() *analytics.Recorder { return a.recorder }

// Reachability exposes the connectivity monitor.
func (a *App) Reachability() *reachability.Monitor { return a.reach }

// SetRetryOperation installs the callback that replays queued failures.
func (a *App) SetRetryOperation(op queue.RetryOperation) {
	a.queue.SetRetryOperation(op)
}

// Start restores persisted state and launches the background loops and
// the HTTP server.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.recorder.Start(runCtx)
	if err := a.queue.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start queue: %w", err)
	}

	if a.pruner != nil {
		go a.pruner.Start(runCtx)
	}

	go func() {
		a.log.Info("health server listening", "port", a.cfg.Server.Port)
		if err := a.server.Start(); err != nil && err != http.ErrServerClosed {
			a.log.Error("health server failed", "error", err)
		}
	}()

	return nil
}

// Stop shuts everything down, flushing the last queue snapshot and any
// buffered analytics.
func (a *App) Stop(ctx context.Context) error {
	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn("error stopping health server", "error", err)
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.queue.Wait()
	a.recorder.Wait()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("error closing redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("error closing database", "error", err)
		}
	}
	return nil
}

// storeSink adapts a storage.EventStore into an analytics.Sink.
type storeSink struct {
	store storage.EventStore
}

func (s *storeSink) Record(ctx context.Context, ev *domain.AnalyticsEvent) error {
	return s.store.Append(ctx, ev)
}
