package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamlando/joanie-resilience/internal/core/config"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted offline queue snapshot",
	Run:   runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) {
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

	if err := store.Clear(ctx); err != nil {
		slog.Error("Failed to clear queue snapshot", "error", err)
		os.Exit(1)
	}
	fmt.Println("offline queue snapshot cleared")
}
