package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/events"
	"github.com/unistate/devenv/internal/ready"
	"github.com/unistate/devenv/internal/stack"
)

var upWait bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the database service (creates the data volume on first run)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		if err := s.Up(ctx); err != nil {
			return err
		}
		publishEvent(ctx, events.TopicEnvUp, "db started")
		fmt.Println("Database service started.")

		if !upWait {
			fmt.Println("Note: started is not ready; run `udev wait` before connecting.")
			return nil
		}
		if err := waitForDatabase(ctx); err != nil {
			return err
		}
		publishEvent(ctx, events.TopicEnvReady, "db accepting connections")
		fmt.Println("Database is ready.")
		return nil
	},
}

// waitForDatabase gates on the listener first, then on an authenticated
// session, so "ready" means the credential triple actually works.
func waitForDatabase(ctx context.Context) error {
	gate := ready.New(cfg.WaitTimeout)
	addr := fmt.Sprintf("localhost:%d", cfg.Port)
	if err := gate.WaitTCP(ctx, addr); err != nil {
		return err
	}
	return gate.WaitPing(ctx, cfg.DSN())
}

func init() {
	upCmd.Flags().BoolVar(&upWait, "wait", true, "block until the database accepts authenticated connections")
}
