package config

import (
	"github.com/mvp-joe/dendrite/internal/indexer"
)

// ToIndexerConfig converts a Config to an indexer.Config.
// The rootDir parameter specifies the root directory of the codebase to index.
func (c *Config) ToIndexerConfig(rootDir string) *indexer.Config {
	return &indexer.Config{
		RootDir:         rootDir,
		IncludePatterns: c.Paths.Code,
		IgnorePatterns:  c.Paths.Ignore,
		Options:         c.EngineOptions(),
		DatabasePath:    c.DatabasePath(rootDir),
		CacheEntries:    c.Cache.MaxEntries,
	}
}
