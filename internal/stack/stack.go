// Package stack drives the environment lifecycle through the docker compose
// CLI: bring the database up, stop it, tear it down, and report state.
package stack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/unistate/devenv/internal/compose"
	"github.com/unistate/devenv/internal/config"
)

// Runner executes the docker binary. It is an interface so tests can record
// invocations instead of requiring a docker daemon.
type Runner interface {
	// Run executes docker with the given arguments and returns combined output.
	Run(ctx context.Context, args ...string) ([]byte, error)
	// RunAttached executes docker with the caller's terminal attached.
	RunAttached(ctx context.Context, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "docker", args...).CombinedOutput()
}

func (execRunner) RunAttached(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Stack is a handle on one named environment: a project name plus the
// rendered manifest file the orchestrator reads.
type Stack struct {
	project string
	file    string
	runner  Runner
	logger  *slog.Logger
}

// New renders, lints and writes the manifest for cfg into the state
// directory, returning a Stack bound to it.
func New(cfg *config.Config) (*Stack, error) {
	m := compose.Default(cfg)
	if err := compose.Lint(m); err != nil {
		return nil, fmt.Errorf("linting manifest: %w", err)
	}
	data, err := compose.Render(m)
	if err != nil {
		return nil, err
	}
	dir, err := config.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolving state dir: %w", err)
	}
	file := filepath.Join(dir, cfg.Project+".compose.yml")
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return &Stack{
		project: cfg.Project,
		file:    file,
		runner:  execRunner{},
		logger:  slog.Default(),
	}, nil
}

// NewWithRunner is like New but uses the given runner. Tests use it with a
// recording runner.
func NewWithRunner(cfg *config.Config, r Runner) (*Stack, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	s.runner = r
	return s, nil
}

// ManifestPath returns the path of the rendered manifest file.
func (s *Stack) ManifestPath() string { return s.file }

func (s *Stack) compose(args ...string) []string {
	return append([]string{"compose", "-p", s.project, "-f", s.file}, args...)
}

// Up starts the database service detached. The psql service is deliberately
// excluded: it is an interactive session, run on demand by Attach. The named
// volume is created by the orchestrator on first use and reused afterwards.
func (s *Stack) Up(ctx context.Context) error {
	s.logger.Info("starting environment", "project", s.project)
	out, err := s.runner.Run(ctx, s.compose("up", "-d", "--remove-orphans", compose.ServiceDB)...)
	if err != nil {
		return fmt.Errorf("compose up: %w\n%s", err, bytes.TrimSpace(out))
	}
	return nil
}

// Stop stops the services without touching the volume.
func (s *Stack) Stop(ctx context.Context) error {
	s.logger.Info("stopping environment", "project", s.project)
	out, err := s.runner.Run(ctx, s.compose("stop")...)
	if err != nil {
		return fmt.Errorf("compose stop: %w\n%s", err, bytes.TrimSpace(out))
	}
	return nil
}

// Down removes the services. With removeVolumes it also destroys the named
// volume. No other path does, so persisted state survives everything short
// of an explicit destroy.
func (s *Stack) Down(ctx context.Context, removeVolumes bool) error {
	args := []string{"down", "--remove-orphans"}
	if removeVolumes {
		args = append(args, "--volumes")
	}
	s.logger.Info("tearing down environment", "project", s.project, "volumes", removeVolumes)
	out, err := s.runner.Run(ctx, s.compose(args...)...)
	if err != nil {
		return fmt.Errorf("compose down: %w\n%s", err, bytes.TrimSpace(out))
	}
	return nil
}

// Attach runs the interactive psql service in the foreground with the
// caller's terminal, removing the container when the session ends. Extra
// args are appended to the service's fixed argv.
func (s *Stack) Attach(ctx context.Context, extraArgs ...string) error {
	args := s.compose(append([]string{"run", "--rm", compose.ServicePSQL}, extraArgs...)...)
	return s.runner.RunAttached(ctx, args...)
}

// AttachScripted is Attach without a TTY, for piped or single-command use.
func (s *Stack) AttachScripted(ctx context.Context, extraArgs ...string) error {
	args := s.compose(append([]string{"run", "--rm", "-T", compose.ServicePSQL}, extraArgs...)...)
	return s.runner.RunAttached(ctx, args...)
}

// Logs streams the given service's log output to the terminal.
func (s *Stack) Logs(ctx context.Context, service string) error {
	return s.runner.RunAttached(ctx, s.compose("logs", "--no-log-prefix", service)...)
}

// ServiceStatus is one service's state as reported by the orchestrator.
type ServiceStatus struct {
	Name    string `json:"Name"`
	Service string `json:"Service"`
	State   string `json:"State"`
	Health  string `json:"Health"`
}

// Status reports the state of every service in the project, including
// stopped ones.
func (s *Stack) Status(ctx context.Context) ([]ServiceStatus, error) {
	out, err := s.runner.Run(ctx, s.compose("ps", "--all", "--format", "json")...)
	if err != nil {
		return nil, fmt.Errorf("compose ps: %w\n%s", err, bytes.TrimSpace(out))
	}
	return parseStatus(out)
}

// parseStatus handles both ps output shapes: a JSON array (older compose)
// and one JSON object per line.
func parseStatus(out []byte) ([]ServiceStatus, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var statuses []ServiceStatus
		if err := json.Unmarshal(trimmed, &statuses); err != nil {
			return nil, fmt.Errorf("parsing compose ps output: %w", err)
		}
		return statuses, nil
	}
	var statuses []ServiceStatus
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var st ServiceStatus
		if err := json.Unmarshal(line, &st); err != nil {
			return nil, fmt.Errorf("parsing compose ps output: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
