package config

import (
	"path/filepath"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// Config represents the complete dendrite configuration.
// It can be loaded from .dendrite/config.yml with environment variable overrides.
type Config struct {
	Parsing ParsingConfig `yaml:"parsing" mapstructure:"parsing"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
}

// ParsingConfig bounds the chunked parsing pipeline.
type ParsingConfig struct {
	MaxDirectParseSize    int     `yaml:"max_direct_parse_size" mapstructure:"max_direct_parse_size"`     // max bytes a grammar parses in one pass
	ChunkSizeTarget       int     `yaml:"chunk_size_target" mapstructure:"chunk_size_target"`             // target bytes per chunk for oversized files
	ThresholdMultiplier   float64 `yaml:"threshold_multiplier" mapstructure:"threshold_multiplier"`       // scales the chunking trigger
	BypassSizeLimit       bool    `yaml:"bypass_size_limit" mapstructure:"bypass_size_limit"`             // parse oversized chunks anyway
	IncludePrivateSymbols bool    `yaml:"include_private_symbols" mapstructure:"include_private_symbols"` // keep private-visibility symbols
}

// PathsConfig defines which files to index and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for source files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to skip
}

// StorageConfig defines where parse results persist.
type StorageConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // Override default .dendrite/index.db
}

// CacheConfig bounds the in-process parse result cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"` // cached files per run; 0 disables caching
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Parsing: ParsingConfig{
			MaxDirectParseSize:    1 << 20,
			ChunkSizeTarget:       64 << 10,
			ThresholdMultiplier:   1.0,
			BypassSizeLimit:       false,
			IncludePrivateSymbols: true,
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.ts",
				"**/*.tsx",
				"**/*.mts",
				"**/*.cts",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.cjs",
				"**/*.py",
				"**/*.rb",
				"**/*.rs",
				"**/*.java",
				"**/*.c",
				"**/*.h",
				"**/*.php",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				".dendrite/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
		},
		Storage: StorageConfig{
			Location: "", // Empty means use default .dendrite/index.db
		},
		Cache: CacheConfig{
			MaxEntries: 4096,
		},
	}
}

// EngineOptions maps the parsing section onto engine options.
func (c *Config) EngineOptions() parser.Options {
	return parser.Options{
		MaxDirectParseSize:       c.Parsing.MaxDirectParseSize,
		ChunkSizeTarget:          c.Parsing.ChunkSizeTarget,
		ChunkThresholdMultiplier: c.Parsing.ThresholdMultiplier,
		BypassSizeLimit:          c.Parsing.BypassSizeLimit,
		IncludePrivateSymbols:    c.Parsing.IncludePrivateSymbols,
	}
}

// DatabasePath resolves the sqlite database location for a project
// root. An absolute storage.location overrides the default; a relative
// one is taken under the root.
func (c *Config) DatabasePath(rootDir string) string {
	loc := c.Storage.Location
	if loc == "" {
		loc = filepath.Join(".dendrite", "index.db")
	}
	if filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(rootDir, loc)
}

// GetSourceExtensions extracts unique file extensions from the code patterns.
// Returns extensions with leading dot (e.g., []string{".ts", ".py"}).
func (c *Config) GetSourceExtensions() []string {
	extMap := make(map[string]bool)

	for _, pattern := range c.Paths.Code {
		if ext := extractExtension(pattern); ext != "" {
			extMap[ext] = true
		}
	}

	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}

	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.ts" -> ".ts", "*.py" -> ".py"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
