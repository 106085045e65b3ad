package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/stack"
	"github.com/unistate/devenv/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the environment's services",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		statuses, err := s.Status(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(statuses)
			return nil
		}
		if len(statuses) == 0 {
			fmt.Println("No services. Run `udev up` to start the environment.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tCONTAINER\tSTATE\tHEALTH")
		for _, st := range statuses {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Service, st.Name, ui.State(st.State), st.Health)
		}
		return w.Flush()
	},
}
