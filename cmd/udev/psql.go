package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/stack"
	"github.com/unistate/devenv/internal/ui"
)

var psqlCommand string

var psqlCmd = &cobra.Command{
	Use:   "psql",
	Short: "Attach an interactive psql session to the database",
	Long: `Attach an interactive psql session to the database, connecting by
service name over the environment's network with the configured
credential triple. The database is readiness-gated first, so the
session never races the server's startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if psqlCommand == "" && !ui.IsInteractive() {
			return fmt.Errorf("stdin is not a terminal; use --command for scripted queries")
		}

		if err := waitForDatabase(ctx); err != nil {
			return err
		}

		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		if psqlCommand != "" {
			return s.AttachScripted(ctx, "-c", psqlCommand)
		}
		return s.Attach(ctx)
	},
}

func init() {
	psqlCmd.Flags().StringVarP(&psqlCommand, "command", "c", "", "run a single command instead of an interactive session")
}
