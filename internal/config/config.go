package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the generation settings shared by the wixgen binaries.
type Config struct {
	// SearchPath lists directories searched, in order, for dependency libraries.
	SearchPath []string `yaml:"search_path"`
	// ExtraDLLs lists library names resolved even when no binary imports them.
	ExtraDLLs []string `yaml:"extra_dlls"`
	// Metadata maps product attributes stamped onto the installer document.
	// It must carry at least a "version" entry.
	Metadata map[string]string `yaml:"metadata"`
	// Routing maps artifact base names to the directory anchor they install
	// under. Names absent from the table install into the application folder.
	Routing map[string]string `yaml:"routing"`
	// Compiler is the external installer compiler command invoked by msibuild.
	Compiler string `yaml:"compiler"`
}

const (
	// DefaultConfigFilename is the default filename for generation settings.
	DefaultConfigFilename = "wixgen.yaml"

	// DefaultCompiler is the installer compiler used when none is configured.
	DefaultCompiler = "wixl"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errVersionRequired is returned when the metadata lacks a version entry.
	errVersionRequired = errors.New(`metadata must provide a non-empty "version" entry`)
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Metadata["version"] == "" {
		return errVersionRequired
	}

	// Set default compiler if not specified.
	if cfg.Compiler == "" {
		cfg.Compiler = DefaultCompiler
	}

	return nil
}
