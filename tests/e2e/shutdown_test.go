package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/jamlando/joanie-resilience/internal/control"
	"github.com/jamlando/joanie-resilience/internal/core/config"
	"github.com/jamlando/joanie-resilience/internal/core/domain"
	"github.com/jamlando/joanie-resilience/internal/resilience/taxonomy"
)

func TestGracefulShutdown(t *testing.T) {
	// Memory storage; an uncommon port to avoid clashes in CI.
	cfg := &config.AppConfig{
		Server: config.ServerConfig{Port: 18921},
	}

	app, err := control.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Exercise the wired queue while running.
	d := taxonomy.Describe(taxonomy.KindNetworkUnavailable)
	if _, err := app.Queue().Enqueue(d, nil, domain.PriorityNormal); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// Let background loops spin up
	time.Sleep(100 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
