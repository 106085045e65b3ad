package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/compose"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the environment's compose document",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := compose.Default(cfg)
		if err := compose.Lint(m); err != nil {
			return fmt.Errorf("linting manifest: %w", err)
		}
		data, err := compose.Render(m)
		if err != nil {
			return err
		}
		if renderOutput != "" {
			if err := os.WriteFile(renderOutput, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", renderOutput, err)
			}
			fmt.Printf("Wrote %s\n", renderOutput)
			return nil
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the document to a file instead of stdout")
}
