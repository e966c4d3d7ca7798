package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamlando/joanie-resilience/internal/core/config"
	redisclient "github.com/jamlando/joanie-resilience/internal/infra/redis"
	"github.com/jamlando/joanie-resilience/internal/infra/storage"
	"github.com/jamlando/joanie-resilience/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted offline queue without running the daemon",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// openStore connects to whichever snapshot backend is configured.
func openStore(ctx context.Context, cfg *config.AppConfig) (storage.QueueStore, func(), error) {
	switch {
	case cfg.Database.URL != "":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewQueueStore(db), func() { _ = db.Close() }, nil
	case cfg.Redis.URL != "":
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisclient.NewQueueStore(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("no storage configured")
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	entries, err := store.Load(ctx)
	if err != nil {
		slog.Error("Failed to load queue snapshot", "error", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("offline queue is empty")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tPRIORITY\tATTEMPTS\tENQUEUED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
			e.ID[:8], e.Kind, e.Priority.String(),
			e.AttemptCount, e.MaxAttempts,
			e.EnqueuedAt.Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()
}
