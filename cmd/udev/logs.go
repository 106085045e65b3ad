package main

import (
	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/compose"
	"github.com/unistate/devenv/internal/stack"
)

var logsCmd = &cobra.Command{
	Use:       "logs [service]",
	Short:     "Stream a service's log output",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{compose.ServiceDB, compose.ServicePSQL},
	RunE: func(cmd *cobra.Command, args []string) error {
		service := compose.ServiceDB
		if len(args) == 1 {
			service = args[0]
		}
		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		return s.Logs(cmd.Context(), service)
	},
}
