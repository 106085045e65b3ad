// Package ready implements the readiness gate between "the database process
// was started" and "the database accepts authenticated connections". Start
// order alone guarantees only the former; everything that talks to the
// database goes through this gate first.
package ready

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Gate retries a probe until it succeeds or the timeout window closes.
type Gate struct {
	Timeout  time.Duration
	Interval time.Duration

	// Probe overrides, used by tests.
	dial func(ctx context.Context, addr string) error
	ping func(ctx context.Context, dsn string) error
}

// New returns a Gate with the given overall timeout and a 250ms probe
// interval.
func New(timeout time.Duration) *Gate {
	return &Gate{
		Timeout:  timeout,
		Interval: 250 * time.Millisecond,
		dial:     dialTCP,
		ping:     pingPostgres,
	}
}

// WaitTCP blocks until a TCP connection to addr succeeds.
func (g *Gate) WaitTCP(ctx context.Context, addr string) error {
	return g.wait(ctx, "tcp listener", addr, func(ctx context.Context) error {
		return g.dial(ctx, addr)
	})
}

// WaitPing blocks until an authenticated connection described by dsn
// succeeds. A listener that accepts but refuses the credential triple keeps
// this probe failing.
func (g *Gate) WaitPing(ctx context.Context, dsn string) error {
	return g.wait(ctx, "database ping", dsn, func(ctx context.Context) error {
		return g.ping(ctx, dsn)
	})
}

// ProbeTCP is a single-shot connection attempt with no retry. It exists so
// callers (and tests) can observe the raw race a start-order-only dependency
// exposes.
func (g *Gate) ProbeTCP(ctx context.Context, addr string) error {
	return g.dial(ctx, addr)
}

func (g *Gate) wait(ctx context.Context, what, target string, probe func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; ; attempt++ {
		err := probe(ctx)
		if err == nil {
			slog.Debug("ready", "probe", what, "attempts", attempt)
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if lastErr == nil {
				lastErr = ctx.Err()
			}
			return fmt.Errorf("waiting for %s at %s: %w", what, redact(target), lastErr)
		case <-time.After(g.Interval):
		}
	}
}

func dialTCP(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

func pingPostgres(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}

// redact hides the password when the target is a connection string.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.User == nil {
		return target
	}
	return u.Redacted()
}
