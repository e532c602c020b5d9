// Package xdgdirs resolves the XDG Base Directory paths the generator
// stores its files under: the download cache, the prepare configuration and
// the generation history.
package xdgdirs

import (
	"os"
	"path/filepath"
)

// Dirs provides XDG Base Directory Specification compliant paths for one
// application.
type Dirs struct {
	app        string
	configHome string
	stateHome  string
	cacheHome  string
	configDirs []string
}

// New resolves the base directories for the given application name,
// honoring the XDG_* environment variables and falling back to the spec's
// defaults under the user's home.
func New(app string) *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}

	d := &Dirs{app: app}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	d.stateHome = os.Getenv("XDG_STATE_HOME")
	if d.stateHome == "" {
		d.stateHome = filepath.Join(homeDir, ".local", "state")
	}

	d.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if d.cacheHome == "" {
		d.cacheHome = filepath.Join(homeDir, ".cache")
	}

	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		d.configDirs = []string{"/etc/xdg"}
	} else {
		d.configDirs = filepath.SplitList(configDirsEnv)
	}

	return d
}

// ConfigDir returns the application's configuration directory.
func (d *Dirs) ConfigDir() string {
	return filepath.Join(d.configHome, d.app)
}

// StateDir returns the application's state directory.
func (d *Dirs) StateDir() string {
	return filepath.Join(d.stateHome, d.app)
}

// CacheDir returns the application's cache directory.
func (d *Dirs) CacheDir() string {
	return filepath.Join(d.cacheHome, d.app)
}

// ConfigSearchPath returns the application config directories in preference
// order, the user's own first.
func (d *Dirs) ConfigSearchPath() []string {
	paths := []string{d.ConfigDir()}
	for _, dir := range d.configDirs {
		paths = append(paths, filepath.Join(dir, d.app))
	}
	return paths
}

// EnsureDir creates the directory if it doesn't exist.
func (d *Dirs) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
