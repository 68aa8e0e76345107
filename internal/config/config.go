// Package config resolves the directory layout and user configuration for opt.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultRoot is the conventional install root for manually managed software.
const DefaultRoot = "/opt"

// Config holds the resolved directory layout. All paths are absolute.
// Every managed application lives in its own directory directly under Root;
// everything opt needs for bookkeeping lives under the registry directory
// Root/.opt so that a single tree contains all managed state.
type Config struct {
	// Root is the install root; each application gets Root/<name>.
	Root string `yaml:"root"`

	// Fragment is the shell-startup fragment holding managed PATH entries.
	// Defaults to <registry>/path.sh.
	Fragment string `yaml:"fragment"`

	// ApplicationsDir receives installed .desktop launcher files.
	ApplicationsDir string `yaml:"applications_dir"`

	// IconsDir receives icon copies referenced by launchers.
	IconsDir string `yaml:"icons_dir"`
}

// Load reads the user configuration and applies defaults. The file is
// optional: a missing file yields the default layout. Lookup order is
// $OPT_CONFIG, then <config dir>/config.yaml.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("OPT_CONFIG")
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Dir returns the opt config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/opt if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "opt"), nil
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = os.Getenv("OPT_ROOT")
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Fragment == "" {
		c.Fragment = filepath.Join(c.RegistryDir(), "path.sh")
	}
	if c.ApplicationsDir == "" {
		c.ApplicationsDir = dataPath("applications")
	}
	if c.IconsDir == "" {
		c.IconsDir = dataPath(filepath.Join("icons", "opt"))
	}
}

// OverrideRoot points the layout at a different install root, re-deriving
// the defaults that hang off the registry directory. Paths the user set
// explicitly are left alone.
func (c *Config) OverrideRoot(root string) {
	oldFragment := filepath.Join(c.RegistryDir(), "path.sh")
	c.Root = root
	if c.Fragment == oldFragment {
		c.Fragment = filepath.Join(c.RegistryDir(), "path.sh")
	}
}

// RegistryDir is the reserved directory holding the metadata database, the
// lock file, the PATH fragment and the managed bin directory.
func (c *Config) RegistryDir() string {
	return filepath.Join(c.Root, ".opt")
}

// DBPath is the location of the registry database.
func (c *Config) DBPath() string {
	return filepath.Join(c.RegistryDir(), "opt.db")
}

// LockPath is the advisory lock file serializing mutating invocations.
func (c *Config) LockPath() string {
	return filepath.Join(c.RegistryDir(), "opt.lock")
}

// BinDir holds symlinks created by `opt path --link-name`.
func (c *Config) BinDir() string {
	return filepath.Join(c.RegistryDir(), "bin")
}

// InstallDir returns the versioned install directory for an application name.
func (c *Config) InstallDir(name string) string {
	return filepath.Join(c.Root, name)
}

// EnsureRegistryDir creates the registry directory if it does not exist.
func (c *Config) EnsureRegistryDir() error {
	if err := os.MkdirAll(c.RegistryDir(), 0755); err != nil {
		return fmt.Errorf("cannot create registry directory %s: %w", c.RegistryDir(), err)
	}
	return nil
}

// dataPath resolves a subpath of the XDG data home (~/.local/share).
func dataPath(sub string) string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/usr/share", sub)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, sub)
}
