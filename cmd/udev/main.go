// Command udev manages the unistate local development environment: a
// postgres service plus an interactive psql client, declared as a compose
// document and driven through the docker compose CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/config"
	"github.com/unistate/devenv/internal/events"
	"github.com/unistate/devenv/internal/ui"
)

var (
	jsonOutput  bool
	profileName string
	verbose     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "udev",
	Short: "Local development environment for unistate",
	Long: `udev renders and drives the unistate development environment:
a postgres service with a persistent data volume and an interactive
psql client wired to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if profileName != "" {
			os.Setenv("UDEV_PROFILE", profileName)
		}
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
}

// publishEvent emits a lifecycle event when an event bus is configured. A
// broken bus never fails the command; it is reported and skipped.
func publishEvent(ctx context.Context, topic, detail string) {
	pub, err := events.ForURL(cfg.NATSURL)
	if err != nil {
		slog.Warn("event bus unavailable", "url", cfg.NATSURL, "error", err)
		return
	}
	defer pub.Close()
	ev := events.Lifecycle{Project: cfg.Project, At: time.Now().UTC(), Detail: detail}
	if err := pub.Publish(ctx, topic, ev); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "environment profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(psqlCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
