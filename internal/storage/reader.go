package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// ResultReader reads stored parse results from SQLite.
type ResultReader struct {
	db *sql.DB
}

// NewResultReader creates a ResultReader instance.
func NewResultReader(db *sql.DB) *ResultReader {
	return &ResultReader{db: db}
}

// LoadFileResult reconstructs the merged result stored for a file.
// Returns ErrFileNotIndexed when the path has no row.
func (r *ResultReader) LoadFileResult(filePath string) (*parser.MergedResult, error) {
	res := &parser.MergedResult{
		Symbols:      []parser.Symbol{},
		Dependencies: []parser.Dependency{},
		Imports:      []parser.Import{},
		Exports:      []parser.Export{},
		Errors:       []parser.ParseError{},
	}

	err := sq.Select("chunk_count", "cross_chunk_refs").
		From("files").
		Where(sq.Eq{"file_path": filePath}).
		RunWith(r.db).
		QueryRow().
		Scan(&res.ChunkCount, &res.CrossChunkReferences)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrFileNotIndexed, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file %s: %w", filePath, err)
	}

	if res.Symbols, err = r.loadSymbols(filePath); err != nil {
		return nil, err
	}
	if res.Dependencies, err = r.loadDependencies(filePath); err != nil {
		return nil, err
	}
	if res.Imports, err = r.loadImports(filePath); err != nil {
		return nil, err
	}
	if res.Exports, err = r.loadExports(filePath); err != nil {
		return nil, err
	}
	if res.Errors, err = r.loadParseErrors(filePath); err != nil {
		return nil, err
	}

	return res, nil
}

// ListFiles returns every indexed file ordered by path.
func (r *ResultReader) ListFiles() ([]FileRecord, error) {
	rows, err := sq.Select(
		"file_path", "language", "size_bytes", "file_hash",
		"chunk_count", "cross_chunk_refs", "indexed_at",
	).
		From("files").
		OrderBy("file_path").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []FileRecord{}
	for rows.Next() {
		var f FileRecord
		var indexedAt string
		err := rows.Scan(
			&f.Path, &f.Language, &f.SizeBytes, &f.Hash,
			&f.ChunkCount, &f.CrossChunkRefs, &indexedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		if f.IndexedAt, err = time.Parse(time.RFC3339, indexedAt); err != nil {
			return nil, fmt.Errorf("failed to parse indexed_at for %s: %w", f.Path, err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// AllSymbols loads every stored symbol with file attribution, for the
// search layer.
func (r *ResultReader) AllSymbols() ([]SymbolRecord, error) {
	rows, err := sq.Select(
		"symbol_id", "file_path", "name", "qualified_name", "kind", "entity_type",
		"start_line", "end_line", "start_column", "end_column",
		"is_exported", "visibility", "signature", "description",
	).
		From("symbols").
		OrderBy("file_path", "start_line", "start_column").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	records := []SymbolRecord{}
	for rows.Next() {
		rec, err := scanSymbolRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return records, nil
}

// AllDependencies loads every stored dependency edge with file
// attribution, for the graph layer.
func (r *ResultReader) AllDependencies() ([]DependencyRecord, error) {
	rows, err := sq.Select(
		"dependency_id", "file_path", "from_symbol", "to_symbol",
		"kind", "line", "confidence", "context",
	).
		From("dependencies").
		OrderBy("file_path", "line").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	records := []DependencyRecord{}
	for rows.Next() {
		var rec DependencyRecord
		err := rows.Scan(
			&rec.ID, &rec.FilePath,
			&rec.Dependency.From, &rec.Dependency.To, &rec.Dependency.Kind,
			&rec.Dependency.Line, &rec.Dependency.Confidence, &rec.Dependency.Context,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}

	return records, nil
}

func (r *ResultReader) loadSymbols(filePath string) ([]parser.Symbol, error) {
	rows, err := sq.Select(
		"symbol_id", "file_path", "name", "qualified_name", "kind", "entity_type",
		"start_line", "end_line", "start_column", "end_column",
		"is_exported", "visibility", "signature", "description",
	).
		From("symbols").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("start_line", "start_column").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	symbols := []parser.Symbol{}
	for rows.Next() {
		rec, err := scanSymbolRecord(rows)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, rec.Symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}

func (r *ResultReader) loadDependencies(filePath string) ([]parser.Dependency, error) {
	rows, err := sq.Select("from_symbol", "to_symbol", "kind", "line", "confidence", "context").
		From("dependencies").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	deps := []parser.Dependency{}
	for rows.Next() {
		var d parser.Dependency
		if err := rows.Scan(&d.From, &d.To, &d.Kind, &d.Line, &d.Confidence, &d.Context); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}

	return deps, nil
}

func (r *ResultReader) loadImports(filePath string) ([]parser.Import, error) {
	rows, err := sq.Select("source", "names", "kind", "line", "is_dynamic").
		From("imports").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	imports := []parser.Import{}
	for rows.Next() {
		var imp parser.Import
		var names string
		var isDynamic int
		if err := rows.Scan(&imp.Source, &names, &imp.Kind, &imp.Line, &isDynamic); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		if imp.Names, err = decodeNames(names); err != nil {
			return nil, err
		}
		imp.Dynamic = isDynamic == 1
		imports = append(imports, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating imports: %w", err)
	}

	return imports, nil
}

func (r *ResultReader) loadExports(filePath string) ([]parser.Export, error) {
	rows, err := sq.Select("names", "kind", "source", "line").
		From("exports").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	exports := []parser.Export{}
	for rows.Next() {
		var exp parser.Export
		var names string
		if err := rows.Scan(&names, &exp.Kind, &exp.Source, &exp.Line); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		if exp.Names, err = decodeNames(names); err != nil {
			return nil, err
		}
		exports = append(exports, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}

	return exports, nil
}

func (r *ResultReader) loadParseErrors(filePath string) ([]parser.ParseError, error) {
	rows, err := sq.Select("kind", "message", "line", "column_number", "severity").
		From("parse_errors").
		Where(sq.Eq{"file_path": filePath}).
		OrderBy("line").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query parse errors: %w", err)
	}
	defer rows.Close()

	errors := []parser.ParseError{}
	for rows.Next() {
		var perr parser.ParseError
		if err := rows.Scan(&perr.Kind, &perr.Message, &perr.Line, &perr.Column, &perr.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan parse error: %w", err)
		}
		errors = append(errors, perr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parse errors: %w", err)
	}

	return errors, nil
}

// scanSymbolRecord reads one symbols row. The row shape must match the
// column list used by AllSymbols and loadSymbols.
func scanSymbolRecord(rows *sql.Rows) (SymbolRecord, error) {
	var rec SymbolRecord
	var isExported int
	err := rows.Scan(
		&rec.ID, &rec.FilePath,
		&rec.Symbol.Name, &rec.Symbol.QualifiedName, &rec.Symbol.Kind, &rec.Symbol.EntityType,
		&rec.Symbol.StartLine, &rec.Symbol.EndLine, &rec.Symbol.StartColumn, &rec.Symbol.EndColumn,
		&isExported, &rec.Symbol.Visibility, &rec.Symbol.Signature, &rec.Symbol.Description,
	)
	if err != nil {
		return SymbolRecord{}, fmt.Errorf("failed to scan symbol: %w", err)
	}
	rec.Symbol.Exported = isExported == 1
	return rec, nil
}
