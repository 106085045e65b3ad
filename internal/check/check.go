// Package check verifies the environment's persistence contract from the
// outside: rows written through the published port must survive a restart
// and must be gone after an explicit volume destroy.
package check

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/unistate/devenv/internal/idgen"
)

// ErrMarkerNotFound means a marker written in a previous session is gone:
// either the volume was destroyed or persistence is broken.
var ErrMarkerNotFound = errors.New("marker not found")

// Checker holds an authenticated session against the database service.
type Checker struct {
	db *sql.DB
}

// Open connects to the database at dsn and verifies the session with a ping.
func Open(ctx context.Context, dsn string) (*Checker, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Checker{db: db}, nil
}

// NewWithDB wraps an existing handle. Tests use it with sqlmock.
func NewWithDB(db *sql.DB) *Checker {
	return &Checker{db: db}
}

func (c *Checker) Close() error {
	return c.db.Close()
}

// EnsureMarkerTable creates the marker table if this is a fresh cluster.
func (c *Checker) EnsureMarkerTable(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS udev_markers (
			id TEXT PRIMARY KEY,
			written_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create marker table: %w", err)
	}
	return nil
}

// WriteMarker inserts a fresh marker row and returns its id. Verifying the
// same id after a stop/start round-trip proves the volume carried the data.
func (c *Checker) WriteMarker(ctx context.Context) (string, error) {
	id, err := idgen.NewMarker()
	if err != nil {
		return "", err
	}
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO udev_markers (id) VALUES ($1)`, id); err != nil {
		return "", fmt.Errorf("write marker: %w", err)
	}
	return id, nil
}

// VerifyMarker checks that the marker with the given id is still present.
func (c *Checker) VerifyMarker(ctx context.Context, id string) error {
	var found bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM udev_markers WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return fmt.Errorf("verify marker: %w", err)
	}
	if !found {
		return fmt.Errorf("verify marker %s: %w", id, ErrMarkerNotFound)
	}
	return nil
}

// Report summarizes the session: who we are, where we landed, and how many
// markers the cluster carries. A fresh cluster reports zero markers.
type Report struct {
	Database string `json:"database"`
	User     string `json:"user"`
	Markers  int    `json:"markers"`
}

// Report queries session identity and the marker count.
func (c *Checker) Report(ctx context.Context) (*Report, error) {
	r := &Report{}
	if err := c.db.QueryRowContext(ctx,
		`SELECT current_database(), current_user`).Scan(&r.Database, &r.User); err != nil {
		return nil, fmt.Errorf("query session identity: %w", err)
	}
	if err := c.db.QueryRowContext(ctx,
		`SELECT count(*) FROM udev_markers`).Scan(&r.Markers); err != nil {
		return nil, fmt.Errorf("count markers: %w", err)
	}
	return r, nil
}
