package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"carteira/internal/shared/config"
	"carteira/internal/shared/logger"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Management commands for the carteira API",
	Long: `admin runs maintenance tasks against the carteira database: schema
migrations, invoice and projection inspection, reminder runs and
development tokens.

Configuration is read from the same environment variables as the API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(invoiceCmd())
	rootCmd.AddCommand(projectionCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}
