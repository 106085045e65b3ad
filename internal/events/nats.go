package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Bus is a NATS connection carrying udev lifecycle traffic. The same
// connection publishes events and watches for them.
type Bus struct {
	conn *nats.Conn
}

// Connect opens a bus connection that reconnects indefinitely, so a watcher
// survives a NATS restart.
func Connect(url string) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("udev"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Bus{conn: nc}, nil
}

// Publish emits one lifecycle event on the given topic.
func (b *Bus) Publish(ctx context.Context, topic string, ev Lifecycle) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return b.conn.Publish(topic, data)
}

// Received pairs a decoded lifecycle event with the topic it arrived on.
type Received struct {
	Topic string
	Event Lifecycle
}

// Watch delivers decoded lifecycle events for topic (NATS wildcards like
// "udev.>" work). Payloads that do not decode as Lifecycle are dropped with
// a warning. Call the returned cancel function to unsubscribe and close the
// channel.
func (b *Bus) Watch(topic string) (<-chan Received, func(), error) {
	ch := make(chan Received, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := b.conn.Subscribe(topic, func(msg *nats.Msg) {
		var ev Lifecycle
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("dropping undecodable event", "topic", msg.Subject, "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- Received{Topic: msg.Subject, Event: ev}:
		default:
			// Drop when the watcher falls behind rather than block the
			// NATS client.
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("watching %s: %w", topic, err)
	}
	// Flush so the subscription is registered on the server before events
	// published on other connections can be missed.
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			mu.Unlock()
			// Drain pending deliveries so the handler never sends on a
			// closed channel.
			for {
				select {
				case <-ch:
				default:
					close(ch)
					return
				}
			}
		})
	}

	return ch, cancel, nil
}

func (b *Bus) Close() error {
	b.conn.Close()
	return nil
}
