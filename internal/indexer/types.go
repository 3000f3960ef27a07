package indexer

import (
	"time"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// Config configures one indexing run.
type Config struct {
	// RootDir is the project directory to index.
	RootDir string

	// IncludePatterns are glob patterns selecting source files,
	// relative to RootDir.
	IncludePatterns []string

	// IgnorePatterns are glob patterns excluding files and directories.
	IgnorePatterns []string

	// Options configures the parsing engine.
	Options parser.Options

	// DatabasePath is the SQLite database the results are written to.
	DatabasePath string

	// CacheEntries caps the in-memory result cache. Zero disables
	// caching.
	CacheEntries int

	// Workers caps concurrent file parses. Zero means one per CPU.
	Workers int
}

// Stats tracks what an indexing run processed.
type Stats struct {
	FilesDiscovered int
	FilesIndexed    int
	FilesSkipped    int // matched a pattern but no grammar handles them
	FilesFailed     int // unreadable or unparsable, logged and skipped
	FilesPruned     int // previously indexed, no longer present
	CacheHits       int
	Symbols         int
	Dependencies    int
	ParseErrors     int
	ProcessingTime  time.Duration
}
