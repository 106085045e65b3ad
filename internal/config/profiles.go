package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProfilesConfig holds all named environment profiles and tracks which one is
// active.
type ProfilesConfig struct {
	Active   string             `toml:"active"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is a named set of environment overrides. Zero fields leave the
// corresponding setting untouched.
type Profile struct {
	PostgresImage string `toml:"postgres_image,omitempty"`
	Port          int    `toml:"port,omitempty"`
	Database      string `toml:"database,omitempty"`
	User          string `toml:"user,omitempty"`
	Password      string `toml:"password,omitempty"`
	Description   string `toml:"description,omitempty"`
}

func (p Profile) apply(c *Config) {
	if p.PostgresImage != "" {
		c.PostgresImage = p.PostgresImage
	}
	if p.Port != 0 {
		c.Port = p.Port
	}
	if p.Database != "" {
		c.Credentials.Database = p.Database
	}
	if p.User != "" {
		c.Credentials.User = p.User
	}
	if p.Password != "" {
		c.Credentials.Password = p.Password
	}
}

// StateDir returns the udev state directory, creating it if needed.
func StateDir() (string, error) {
	if dir := os.Getenv("UDEV_STATE_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", err
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "udev")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func profilesPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.toml"), nil
}

// LoadProfiles reads the profile file. A missing file yields an empty config.
func LoadProfiles() (ProfilesConfig, error) {
	path, err := profilesPath()
	if err != nil {
		return ProfilesConfig{}, err
	}
	var pc ProfilesConfig
	if _, err := toml.DecodeFile(path, &pc); err != nil {
		if os.IsNotExist(err) {
			return ProfilesConfig{Profiles: map[string]Profile{}}, nil
		}
		return ProfilesConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if pc.Profiles == nil {
		pc.Profiles = map[string]Profile{}
	}
	return pc, nil
}

// SaveProfiles writes the profile file atomically.
func SaveProfiles(pc ProfilesConfig) error {
	path, err := profilesPath()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(pc); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ActiveProfile returns the profile selected by UDEV_PROFILE or by the
// `active` key of the profile file, if any.
func ActiveProfile() (Profile, bool) {
	pc, err := LoadProfiles()
	if err != nil {
		return Profile{}, false
	}
	name := os.Getenv("UDEV_PROFILE")
	if name == "" {
		name = pc.Active
	}
	if name == "" {
		return Profile{}, false
	}
	p, ok := pc.Profiles[name]
	return p, ok
}
