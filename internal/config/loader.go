package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DENDRITE_*)
// 2. Config file (.dendrite/config.yml or .dendrite/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ".dendrite")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("DENDRITE")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., DENDRITE_PARSING_CHUNK_SIZE_TARGET)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	// Parsing configuration
	v.BindEnv("parsing.max_direct_parse_size")
	v.BindEnv("parsing.chunk_size_target")
	v.BindEnv("parsing.threshold_multiplier")
	v.BindEnv("parsing.bypass_size_limit")
	v.BindEnv("parsing.include_private_symbols")

	// Storage configuration
	v.BindEnv("storage.location")

	// Cache configuration
	v.BindEnv("cache.max_entries")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Parsing defaults
	v.SetDefault("parsing.max_direct_parse_size", defaults.Parsing.MaxDirectParseSize)
	v.SetDefault("parsing.chunk_size_target", defaults.Parsing.ChunkSizeTarget)
	v.SetDefault("parsing.threshold_multiplier", defaults.Parsing.ThresholdMultiplier)
	v.SetDefault("parsing.bypass_size_limit", defaults.Parsing.BypassSizeLimit)
	v.SetDefault("parsing.include_private_symbols", defaults.Parsing.IncludePrivateSymbols)

	// Paths defaults
	v.SetDefault("paths.code", defaults.Paths.Code)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	// Storage defaults
	v.SetDefault("storage.location", defaults.Storage.Location)

	// Cache defaults
	v.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
