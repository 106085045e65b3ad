// Package config loads udev settings from the environment and from the
// optional profile file in the user state directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Credentials is the database name / user / password triple. It is the single
// source for both the server environment block and the client connection
// arguments, so the two service definitions cannot drift apart.
type Credentials struct {
	Database string
	User     string
	Password string
}

type Config struct {
	Project       string        // UDEV_PROJECT (default "unistate")
	PostgresImage string        // UDEV_POSTGRES_IMAGE (default "postgres:16")
	Credentials   Credentials   // UDEV_DB / UDEV_USER / UDEV_PASSWORD (default "unistate_dev" each)
	Port          int           // UDEV_PORT (host port, default 5432)
	WaitTimeout   time.Duration // UDEV_WAIT_TIMEOUT (default 30s)
	NATSURL       string        // UDEV_NATS_URL (optional, empty = no events)
	HTTPAddr      string        // UDEV_HTTP_ADDR (default ":7542", serve command only)
}

// Load builds the configuration in precedence order: built-in defaults,
// then the active profile, then explicit environment variables on top.
func Load() (*Config, error) {
	c := &Config{
		Project:       "unistate",
		PostgresImage: "postgres:16",
		Credentials: Credentials{
			Database: "unistate_dev",
			User:     "unistate_dev",
			Password: "unistate_dev",
		},
		Port:     5432,
		HTTPAddr: ":7542",
	}

	if p, ok := ActiveProfile(); ok {
		p.apply(c)
	}

	if v := os.Getenv("UDEV_PROJECT"); v != "" {
		c.Project = v
	}
	if v := os.Getenv("UDEV_POSTGRES_IMAGE"); v != "" {
		c.PostgresImage = v
	}
	if v := os.Getenv("UDEV_DB"); v != "" {
		c.Credentials.Database = v
	}
	if v := os.Getenv("UDEV_USER"); v != "" {
		c.Credentials.User = v
	}
	if v := os.Getenv("UDEV_PASSWORD"); v != "" {
		c.Credentials.Password = v
	}
	if v := os.Getenv("UDEV_NATS_URL"); v != "" {
		c.NATSURL = v
	}
	if v := os.Getenv("UDEV_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if portStr := os.Getenv("UDEV_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("UDEV_PORT: invalid port %q", portStr)
		}
		c.Port = port
	}

	if c.Credentials.Database == "" || c.Credentials.User == "" || c.Credentials.Password == "" {
		return nil, fmt.Errorf("UDEV_DB, UDEV_USER and UDEV_PASSWORD must be non-empty")
	}

	timeoutStr := envOrDefault("UDEV_WAIT_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("UDEV_WAIT_TIMEOUT: %w", err)
	}
	c.WaitTimeout = d

	return c, nil
}

// DSN returns the connection string for the published host port, using the
// credential triple.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		c.Credentials.User, c.Credentials.Password, c.Port, c.Credentials.Database)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
