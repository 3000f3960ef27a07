package storage

// Domain models that mirror SQL tables in schema.go.
// These are lightweight data transfer structs, NOT ORM models.

import (
	"time"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// FileRecord represents one indexed file.
// Maps to the files table.
type FileRecord struct {
	Path           string    // file_path: relative path from repo root
	Language       string    // language: derived from the file extension
	SizeBytes      int       // size_bytes
	Hash           string    // file_hash: SHA-256 of content
	ChunkCount     int       // chunk_count: chunks the file was parsed in
	CrossChunkRefs int       // cross_chunk_refs: dependencies resolved across chunks
	IndexedAt      time.Time // indexed_at
}

// SymbolRecord is a stored symbol with its file attribution.
// Maps to the symbols table.
type SymbolRecord struct {
	ID       string // symbol_id: UUID
	FilePath string // file_path: FK to files
	Symbol   parser.Symbol
}

// DependencyRecord is a stored dependency edge with its file attribution.
// Maps to the dependencies table.
type DependencyRecord struct {
	ID         string // dependency_id: UUID
	FilePath   string // file_path: FK to files
	Dependency parser.Dependency
}
