package stack

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/unistate/devenv/internal/check"
	"github.com/unistate/devenv/internal/config"
	"github.com/unistate/devenv/internal/ready"
)

// requireDocker skips unless UDEV_E2E=1 and a docker daemon is reachable.
func requireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("UDEV_E2E") != "1" {
		t.Skip("set UDEV_E2E=1 to run dockerized end-to-end tests")
	}
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skipf("docker daemon unavailable: %v", err)
	}
}

func e2eConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("UDEV_STATE_DIR", t.TempDir())
	return &config.Config{
		Project:       fmt.Sprintf("udev-e2e-%d", os.Getpid()),
		PostgresImage: "postgres:16",
		Credentials: config.Credentials{
			Database: "unistate_dev",
			User:     "unistate_dev",
			Password: "unistate_dev",
		},
		Port:        15439,
		WaitTimeout: 90 * time.Second,
	}
}

// Full lifecycle: up, ready within the window, authenticated session works,
// markers survive a stop/up round-trip, and a volume destroy wipes them.
func TestEndToEndLifecycle(t *testing.T) {
	requireDocker(t)

	cfg := e2eConfig(t)
	ctx := context.Background()

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Down(context.Background(), true)
	})

	if err := s.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}

	gate := ready.New(cfg.WaitTimeout)
	addr := fmt.Sprintf("localhost:%d", cfg.Port)
	if err := gate.WaitTCP(ctx, addr); err != nil {
		t.Fatalf("listener never came up: %v", err)
	}
	if err := gate.WaitPing(ctx, cfg.DSN()); err != nil {
		t.Fatalf("authenticated session never became available: %v", err)
	}

	c, err := check.Open(ctx, cfg.DSN())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.EnsureMarkerTable(ctx); err != nil {
		c.Close()
		t.Fatalf("EnsureMarkerTable: %v", err)
	}
	marker, err := c.WriteMarker(ctx)
	if err != nil {
		c.Close()
		t.Fatalf("WriteMarker: %v", err)
	}
	report, err := c.Report(ctx)
	if err != nil {
		c.Close()
		t.Fatalf("Report: %v", err)
	}
	c.Close()
	if report.Database != "unistate_dev" || report.User != "unistate_dev" {
		t.Fatalf("session identity = %+v", report)
	}

	// Restart without touching the volume: the marker must survive.
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Up(ctx); err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if err := gate.WaitPing(ctx, cfg.DSN()); err != nil {
		t.Fatalf("database not ready after restart: %v", err)
	}
	c, err = check.Open(ctx, cfg.DSN())
	if err != nil {
		t.Fatalf("Open after restart: %v", err)
	}
	if err := c.VerifyMarker(ctx, marker); err != nil {
		c.Close()
		t.Fatalf("marker lost across restart: %v", err)
	}
	c.Close()

	// Destroy the volume: the next up must start from an empty database.
	if err := s.Down(ctx, true); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if err := s.Up(ctx); err != nil {
		t.Fatalf("Up after destroy: %v", err)
	}
	if err := gate.WaitPing(ctx, cfg.DSN()); err != nil {
		t.Fatalf("database not ready after reinit: %v", err)
	}
	c, err = check.Open(ctx, cfg.DSN())
	if err != nil {
		t.Fatalf("Open after reinit: %v", err)
	}
	defer c.Close()
	if err := c.EnsureMarkerTable(ctx); err != nil {
		t.Fatalf("EnsureMarkerTable after reinit: %v", err)
	}
	report, err = c.Report(ctx)
	if err != nil {
		t.Fatalf("Report after reinit: %v", err)
	}
	if report.Markers != 0 {
		t.Errorf("reinitialized cluster carries %d markers, want 0", report.Markers)
	}
	if report.Database != "unistate_dev" || report.User != "unistate_dev" {
		t.Errorf("reinitialized session identity = %+v", report)
	}
}

// Scripted psql through the orchestrator: the client resolves the database
// by service name and authenticates with the shared triple.
func TestEndToEndClientAttach(t *testing.T) {
	requireDocker(t)

	cfg := e2eConfig(t)
	cfg.Project += "-psql"
	cfg.Port = 15440
	ctx := context.Background()

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Down(context.Background(), true)
	})

	if err := s.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	gate := ready.New(cfg.WaitTimeout)
	if err := gate.WaitPing(ctx, cfg.DSN()); err != nil {
		t.Fatalf("database not ready: %v", err)
	}

	out, err := exec.Command("docker",
		"compose", "-p", cfg.Project, "-f", s.ManifestPath(),
		"run", "--rm", "-T", "psql", "-c", "SELECT 1").CombinedOutput()
	if err != nil {
		t.Fatalf("psql attach failed: %v\n%s", err, out)
	}
}
