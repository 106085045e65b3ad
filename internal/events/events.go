// Package events emits environment lifecycle events to an optional NATS bus
// so other tooling (dashboards, watchers) can follow what the CLI does.
package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicEnvUp    = "udev.env.up"
	TopicEnvReady = "udev.env.ready"
	TopicEnvDown  = "udev.env.down"
	TopicEnvStop  = "udev.env.stop"
	TopicEnvCheck = "udev.env.check"

	// TopicAll matches every udev event (NATS wildcard).
	TopicAll = "udev.>"
)

// Lifecycle is the payload for every env event.
type Lifecycle struct {
	Project string    `json:"project"`
	At      time.Time `json:"at"`
	Detail  string    `json:"detail,omitempty"`
}

// Publisher is the interface for emitting lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev Lifecycle) error
	Close() error
}

// ForURL returns a bus-backed publisher when url is set, else the noop
// publisher.
func ForURL(url string) (Publisher, error) {
	if url == "" {
		return &NoopPublisher{}, nil
	}
	return Connect(url)
}
