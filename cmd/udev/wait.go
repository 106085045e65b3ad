package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/events"
)

var waitTimeout time.Duration

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the database accepts authenticated connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if waitTimeout > 0 {
			cfg.WaitTimeout = waitTimeout
		}
		if err := waitForDatabase(ctx); err != nil {
			return err
		}
		publishEvent(ctx, events.TopicEnvReady, "db accepting connections")
		fmt.Println("Database is ready.")
		return nil
	},
}

func init() {
	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 0, "override the readiness window (default from UDEV_WAIT_TIMEOUT)")
}
