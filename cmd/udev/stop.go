package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/events"
	"github.com/unistate/devenv/internal/stack"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the environment without touching the data volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		if err := s.Stop(ctx); err != nil {
			return err
		}
		publishEvent(ctx, events.TopicEnvStop, "services stopped")
		fmt.Println("Environment stopped. Data volume retained.")
		return nil
	},
}
