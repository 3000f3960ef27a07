package storage

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// ResultWriter handles writing merged parse results to SQLite.
// Each file is a full replace: previous rows for the path are removed
// in the same transaction that inserts the new ones.
type ResultWriter struct {
	db *sql.DB
}

// NewResultWriter creates a ResultWriter instance.
// DB must have schema already created via CreateSchema().
func NewResultWriter(db *sql.DB) *ResultWriter {
	return &ResultWriter{db: db}
}

// WriteFileResult replaces all stored rows for file.Path with the given
// result. Chunk counts are taken from the result, not the record.
func (w *ResultWriter) WriteFileResult(file *FileRecord, res *parser.MergedResult) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if err := deleteFileRows(tx, file.Path); err != nil {
		return err
	}

	indexedAt := file.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	_, err = sq.Insert("files").
		Columns(
			"file_path", "language", "size_bytes", "file_hash",
			"chunk_count", "cross_chunk_refs", "indexed_at",
		).
		Values(
			file.Path, file.Language, file.SizeBytes, file.Hash,
			res.ChunkCount, res.CrossChunkReferences,
			indexedAt.UTC().Format(time.RFC3339),
		).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert file %s: %w", file.Path, err)
	}

	if err := insertSymbols(tx, file.Path, res.Symbols); err != nil {
		return err
	}
	if err := insertDependencies(tx, file.Path, res.Dependencies); err != nil {
		return err
	}
	if err := insertImports(tx, file.Path, res.Imports); err != nil {
		return err
	}
	if err := insertExports(tx, file.Path, res.Exports); err != nil {
		return err
	}
	if err := insertParseErrors(tx, file.Path, res.Errors); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result for %s: %w", file.Path, err)
	}

	return nil
}

// DeleteFile removes a file and all its result rows.
func (w *ResultWriter) DeleteFile(filePath string) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteFileRows(tx, filePath); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete for %s: %w", filePath, err)
	}

	return nil
}

// deleteFileRows clears every table explicitly rather than relying on
// cascade, so replace semantics hold on any connection.
func deleteFileRows(tx *sql.Tx, filePath string) error {
	tables := []string{"symbols", "dependencies", "imports", "exports", "parse_errors", "files"}
	for _, table := range tables {
		_, err := sq.Delete(table).
			Where(sq.Eq{"file_path": filePath}).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, filePath, err)
		}
	}
	return nil
}

func insertSymbols(tx *sql.Tx, filePath string, symbols []parser.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}

	symbolSql, _, err := sq.Insert("symbols").
		Columns(
			"symbol_id", "file_path", "name", "qualified_name", "kind", "entity_type",
			"start_line", "end_line", "start_column", "end_column",
			"is_exported", "visibility", "signature", "description",
		).
		Values("", "", "", "", "", "", 0, 0, 0, 0, false, "", "", "").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build symbol SQL: %w", err)
	}

	stmt, err := tx.Prepare(symbolSql)
	if err != nil {
		return fmt.Errorf("failed to prepare symbol statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range symbols {
		_, err := stmt.Exec(
			uuid.New().String(),
			filePath,
			s.Name,
			s.QualifiedName,
			s.Kind,
			s.EntityType,
			s.StartLine,
			s.EndLine,
			s.StartColumn,
			s.EndColumn,
			s.Exported,
			s.Visibility,
			s.Signature,
			s.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert symbol %s: %w", s.Name, err)
		}
	}

	return nil
}

func insertDependencies(tx *sql.Tx, filePath string, deps []parser.Dependency) error {
	if len(deps) == 0 {
		return nil
	}

	depSql, _, err := sq.Insert("dependencies").
		Columns(
			"dependency_id", "file_path", "from_symbol", "to_symbol",
			"kind", "line", "confidence", "context",
		).
		Values("", "", "", "", "", 0, 0.0, "").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build dependency SQL: %w", err)
	}

	stmt, err := tx.Prepare(depSql)
	if err != nil {
		return fmt.Errorf("failed to prepare dependency statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range deps {
		_, err := stmt.Exec(
			uuid.New().String(),
			filePath,
			d.From,
			d.To,
			d.Kind,
			d.Line,
			d.Confidence,
			d.Context,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dependency %s->%s: %w", d.From, d.To, err)
		}
	}

	return nil
}

func insertImports(tx *sql.Tx, filePath string, imports []parser.Import) error {
	if len(imports) == 0 {
		return nil
	}

	importSql, _, err := sq.Insert("imports").
		Columns(
			"import_id", "file_path", "source", "names",
			"kind", "line", "is_dynamic",
		).
		Values("", "", "", "", "", 0, false).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build import SQL: %w", err)
	}

	stmt, err := tx.Prepare(importSql)
	if err != nil {
		return fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	for _, imp := range imports {
		names, err := encodeNames(imp.Names)
		if err != nil {
			return err
		}

		_, err = stmt.Exec(
			uuid.New().String(),
			filePath,
			imp.Source,
			names,
			imp.Kind,
			imp.Line,
			imp.Dynamic,
		)
		if err != nil {
			return fmt.Errorf("failed to insert import %s: %w", imp.Source, err)
		}
	}

	return nil
}

func insertExports(tx *sql.Tx, filePath string, exports []parser.Export) error {
	if len(exports) == 0 {
		return nil
	}

	exportSql, _, err := sq.Insert("exports").
		Columns(
			"export_id", "file_path", "names", "kind", "source", "line",
		).
		Values("", "", "", "", "", 0).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build export SQL: %w", err)
	}

	stmt, err := tx.Prepare(exportSql)
	if err != nil {
		return fmt.Errorf("failed to prepare export statement: %w", err)
	}
	defer stmt.Close()

	for _, exp := range exports {
		names, err := encodeNames(exp.Names)
		if err != nil {
			return err
		}

		_, err = stmt.Exec(
			uuid.New().String(),
			filePath,
			names,
			exp.Kind,
			exp.Source,
			exp.Line,
		)
		if err != nil {
			return fmt.Errorf("failed to insert export at line %d: %w", exp.Line, err)
		}
	}

	return nil
}

func insertParseErrors(tx *sql.Tx, filePath string, errors []parser.ParseError) error {
	if len(errors) == 0 {
		return nil
	}

	errorSql, _, err := sq.Insert("parse_errors").
		Columns(
			"error_id", "file_path", "kind", "message",
			"line", "column_number", "severity",
		).
		Values("", "", "", "", 0, 0, "").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build parse error SQL: %w", err)
	}

	stmt, err := tx.Prepare(errorSql)
	if err != nil {
		return fmt.Errorf("failed to prepare parse error statement: %w", err)
	}
	defer stmt.Close()

	for _, perr := range errors {
		_, err := stmt.Exec(
			uuid.New().String(),
			filePath,
			perr.Kind,
			perr.Message,
			perr.Line,
			perr.Column,
			perr.Severity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert parse error at line %d: %w", perr.Line, err)
		}
	}

	return nil
}
