package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configDir  string = "tribes-injector"
	configFile string = "config.yml"
)

// ErrMissingArguments is returned by Validate when the process name or the
// library path is unset.
var ErrMissingArguments = errors.New("required injection arguments not supplied")

// Config defines the options that can be set through the config file.
type Config struct {
	// Process is the executable name of the target, e.g. "app.exe".
	Process string `yaml:"process"`
	// Library is the path of the shared library to load, relative paths
	// resolve against the working directory.
	Library string `yaml:"library"`
	// Wait bounds how long to wait for the remote loader. Zero does not wait.
	Wait time.Duration `yaml:"wait,omitempty"`
	// VerifyLibrary checks the library file before injecting.
	VerifyLibrary bool `yaml:"verify-library"`
}

// DefaultPath returns the location of the per-user config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config directory")
	}
	return filepath.Join(dir, configDir, configFile), nil
}

// Load reads the config file at path. A missing file yields an empty Config
// when optional is set.
func Load(path string, optional bool) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if c.Wait < 0 {
		return nil, errors.Errorf("%s: wait must not be negative", path)
	}
	return c, nil
}

// Validate reports ErrMissingArguments unless both target and library are set.
func (c *Config) Validate() error {
	if c.Process == "" || c.Library == "" {
		return ErrMissingArguments
	}
	return nil
}
