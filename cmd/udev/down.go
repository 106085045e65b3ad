package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/compose"
	"github.com/unistate/devenv/internal/events"
	"github.com/unistate/devenv/internal/stack"
)

var (
	downVolumes bool
	downYes     bool
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Remove the environment's services",
	Long: `Remove the environment's services. The data volume survives unless
--volumes is given; destroying it reinitializes the database on the
next up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if downVolumes && !downYes {
			fmt.Printf("This destroys volume %q and all data in it. Continue? [y/N] ", compose.VolumeData)
			if !confirmDestroy(os.Stdin) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		s, err := stack.New(cfg)
		if err != nil {
			return err
		}
		if err := s.Down(ctx, downVolumes); err != nil {
			return err
		}
		detail := "services removed"
		if downVolumes {
			detail = "services removed, volume destroyed"
		}
		publishEvent(ctx, events.TopicEnvDown, detail)
		fmt.Println("Environment removed.")
		if downVolumes {
			fmt.Println("Data volume destroyed; the next up starts from an empty database.")
		}
		return nil
	},
}

// confirmDestroy reads a y/N answer. Anything but an explicit yes, including
// a failed or empty read, counts as no.
func confirmDestroy(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	downCmd.Flags().BoolVar(&downVolumes, "volumes", false, "also destroy the data volume")
	downCmd.Flags().BoolVarP(&downYes, "yes", "y", false, "skip the volume destruction prompt")
}
