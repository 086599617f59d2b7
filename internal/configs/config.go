package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/idresign/internal/titles"
)

type UserConfig struct {
	Output   OutputConfig   `toml:"output" json:"output"`
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`

	// Unknown lists keys present in the file that this version ignores.
	Unknown []string `toml:"-" json:"-"`
}

type OutputConfig struct {
	// Dir is the parent for output folders. Empty means next to the input.
	Dir string `toml:"dir,omitempty" json:"dir,omitempty"`
}

type DefaultsConfig struct {
	// Title is the title code used when --title is not given.
	Title string `toml:"title,omitempty" json:"title,omitempty"`
}

// LoadUserConfig loads the user configuration. A missing file yields an
// empty config.
func LoadUserConfig() (*UserConfig, error) {
	config := &UserConfig{}

	unknown, err := LoadTOML(ConfigPath(), config)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	config.Unknown = unknown

	return config, nil
}

// SaveUserConfig saves the user configuration.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// SetOutputDir stores dir as the output parent. dir must be an existing
// directory; it is stored as an absolute path.
func SetOutputDir(dir string) (*UserConfig, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("checking output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	return updateUserConfig(func(c *UserConfig) error {
		c.Output.Dir = abs
		return nil
	})
}

// ClearOutputDir removes the configured output parent.
func ClearOutputDir() (*UserConfig, error) {
	return updateUserConfig(func(c *UserConfig) error {
		c.Output.Dir = ""
		return nil
	})
}

// SetDefaultTitle stores code as the default title. code must be registered.
func SetDefaultTitle(code string) (*UserConfig, error) {
	t, err := titles.Lookup(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return updateUserConfig(func(c *UserConfig) error {
		c.Defaults.Title = t.Code
		return nil
	})
}

func updateUserConfig(fn func(*UserConfig) error) (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if err := fn(config); err != nil {
		return nil, err
	}
	if err := SaveUserConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ResolveTitle picks the title for a run: the flag value if set, then the
// configured default, then the first registered title.
func ResolveTitle(flagValue string, config *UserConfig) (titles.Title, error) {
	if flagValue != "" {
		return titles.Lookup(flagValue)
	}
	if config != nil && config.Defaults.Title != "" {
		return titles.Lookup(config.Defaults.Title)
	}
	return titles.Default(), nil
}
