package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/check"
	"github.com/unistate/devenv/internal/events"
)

var (
	checkWrite  bool
	checkVerify string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the database session and the persistence contract",
	Long: `Verify the database session and the persistence contract.

Plain check connects with the credential triple and reports the session
identity and marker count. --write inserts a marker row and prints its
id; --verify asserts a previously written marker survived (run it after
a stop/up round-trip to prove the volume carried the data, or after
down --volumes to prove the destroy was real).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := waitForDatabase(ctx); err != nil {
			return err
		}
		c, err := check.Open(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.EnsureMarkerTable(ctx); err != nil {
			return err
		}

		switch {
		case checkWrite:
			id, err := c.WriteMarker(ctx)
			if err != nil {
				return err
			}
			publishEvent(ctx, events.TopicEnvCheck, "marker written: "+id)
			fmt.Printf("Marker written: %s\n", id)
			fmt.Println("Restart the environment, then run: udev check --verify", id)
			return nil

		case checkVerify != "":
			if err := c.VerifyMarker(ctx, checkVerify); err != nil {
				return err
			}
			publishEvent(ctx, events.TopicEnvCheck, "marker verified: "+checkVerify)
			fmt.Printf("Marker %s survived. Persistence holds.\n", checkVerify)
			return nil

		default:
			report, err := c.Report(ctx)
			if err != nil {
				return err
			}
			publishEvent(ctx, events.TopicEnvCheck, "session verified")
			if jsonOutput {
				printJSON(report)
				return nil
			}
			fmt.Printf("Database: %s\n", report.Database)
			fmt.Printf("User:     %s\n", report.User)
			fmt.Printf("Markers:  %d\n", report.Markers)
			return nil
		}
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkWrite, "write", false, "write a persistence marker")
	checkCmd.Flags().StringVar(&checkVerify, "verify", "", "verify a previously written marker id")
	checkCmd.MarkFlagsMutuallyExclusive("write", "verify")
}
