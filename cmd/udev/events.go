package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch environment lifecycle events from the bus",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NATSURL == "" {
			return fmt.Errorf("UDEV_NATS_URL is not set; there is no event bus to watch")
		}
		bus, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer bus.Close()

		ch, cancel, err := bus.Watch(events.TopicAll)
		if err != nil {
			return err
		}
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		fmt.Fprintln(os.Stderr, "Watching udev events (ctrl-c to stop)...")
		for {
			select {
			case r, open := <-ch:
				if !open {
					return nil
				}
				if jsonOutput {
					printJSON(r)
					continue
				}
				fmt.Printf("%s  %s  %s  %s\n",
					r.Event.At.Format(time.RFC3339), r.Topic, r.Event.Project, r.Event.Detail)
			case <-sigCh:
				return nil
			}
		}
	},
}
