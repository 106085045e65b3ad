// Package compose models the orchestration document for the local
// development environment: a postgres service, an interactive psql service,
// and the named volume that keeps the cluster across restarts.
package compose

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level orchestration document.
type Manifest struct {
	Version  string              `yaml:"version,omitempty"`
	Services map[string]Service  `yaml:"services"`
	Volumes  map[string]struct{} `yaml:"volumes,omitempty"`
}

// Service is a single service definition.
type Service struct {
	Image       string            `yaml:"image"`
	Entrypoint  []string          `yaml:"entrypoint,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	DependsOn   DependsOn         `yaml:"depends_on,omitempty"`
	Healthcheck *Healthcheck      `yaml:"healthcheck,omitempty"`
	StdinOpen   bool              `yaml:"stdin_open,omitempty"`
	TTY         bool              `yaml:"tty,omitempty"`
}

// DependsOn maps a dependency service name to the condition gating this
// service's start.
type DependsOn map[string]Condition

// Condition is a single depends_on entry.
type Condition struct {
	Condition string `yaml:"condition"`
}

// ConditionHealthy releases the dependent only once the dependency's
// healthcheck passes, closing the start-versus-ready race that a bare
// service-name dependency leaves open.
const ConditionHealthy = "service_healthy"

// Healthcheck is the container-level readiness probe.
type Healthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval,omitempty"`
	Timeout  string   `yaml:"timeout,omitempty"`
	Retries  int      `yaml:"retries,omitempty"`
}

// Render serializes the manifest to YAML.
func Render(m *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("rendering manifest: %w", err)
	}
	return data, nil
}

// Parse decodes a YAML orchestration document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
