// Package indexer discovers source files under a project root, runs
// the parsing engine over them, and persists merged results. One bad
// file never aborts a run; failures are logged and counted.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/dendrite/internal/parser"
	"github.com/mvp-joe/dendrite/internal/storage"
)

// Indexer runs the discover, parse, persist pipeline. The result
// cache persists across runs, so calling Run again on an unchanged
// tree is cheap.
type Indexer interface {
	// Run executes one indexing pass and returns statistics about it.
	Run(ctx context.Context) (*Stats, error)

	// Close releases the result cache.
	Close() error
}

// indexer implements Indexer.
type indexer struct {
	cfg         *Config
	engine      *parser.Engine
	progress    ProgressReporter
	cache       *resultCache
	fingerprint string
}

// New creates an Indexer. A nil progress reporter disables reporting.
func New(cfg *Config, progress ProgressReporter) (Indexer, error) {
	if cfg == nil {
		return nil, errors.New("indexer config is required")
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	cache, err := newResultCache(cfg.CacheEntries)
	if err != nil {
		return nil, err
	}

	return &indexer{
		cfg:         cfg,
		engine:      parser.NewEngine(cfg.Options),
		progress:    progress,
		cache:       cache,
		fingerprint: optionsFingerprint(cfg.Options),
	}, nil
}

// Run executes one indexing pass.
func (ix *indexer) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	discovery, err := NewFileDiscovery(ix.cfg.RootDir, ix.cfg.IncludePatterns, ix.cfg.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to compile file patterns: %w", err)
	}

	ix.progress.OnDiscoveryStart()
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	ix.progress.OnDiscoveryComplete(len(files))
	stats.FilesDiscovered = len(files)

	// The discovered set, not the successfully parsed set, decides
	// pruning: a file that failed this run keeps its previous rows.
	discovered := make(map[string]bool, len(files))
	for _, file := range files {
		relPath, err := filepath.Rel(ix.cfg.RootDir, file)
		if err != nil {
			continue
		}
		discovered[filepath.ToSlash(relPath)] = true
	}

	store, err := storage.Open(ix.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	writer := storage.NewResultWriter(store.DB())

	workers := ix.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ix.progress.OnParsingStart(len(files))

	var (
		writeMu sync.Mutex

		indexed, skipped, failed, cacheHits atomic.Int64
		symbols, dependencies, parseErrors  atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			relPath, err := filepath.Rel(ix.cfg.RootDir, file)
			if err != nil {
				log.Printf("Warning: failed to resolve %s: %v", file, err)
				failed.Add(1)
				return nil
			}
			relPath = filepath.ToSlash(relPath)

			if !ix.engine.Supports(relPath) {
				skipped.Add(1)
				return nil
			}

			content, err := os.ReadFile(file)
			if err != nil {
				log.Printf("Warning: failed to read %s: %v", relPath, err)
				failed.Add(1)
				return nil
			}

			hash := contentHash(content)
			key := cacheKey(relPath, hash, ix.fingerprint)

			res, hit := ix.cache.get(key)
			if hit {
				cacheHits.Add(1)
			} else {
				res, err = ix.engine.ParseSource(gctx, relPath, content)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					log.Printf("Warning: failed to parse %s: %v", relPath, err)
					failed.Add(1)
					return nil
				}
				ix.cache.set(key, res)
			}

			language, _ := ix.engine.LanguageName(relPath)

			rec := &storage.FileRecord{
				Path:      relPath,
				Language:  language,
				SizeBytes: len(content),
				Hash:      hash,
				IndexedAt: time.Now(),
			}

			writeMu.Lock()
			err = writer.WriteFileResult(rec, res)
			writeMu.Unlock()
			if err != nil {
				return fmt.Errorf("failed to store result for %s: %w", relPath, err)
			}

			indexed.Add(1)
			symbols.Add(int64(len(res.Symbols)))
			dependencies.Add(int64(len(res.Dependencies)))
			parseErrors.Add(int64(len(res.Errors)))

			ix.progress.OnFileParsed(relPath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pruned, err := ix.pruneStale(store, writer, discovered)
	if err != nil {
		return nil, err
	}

	stats.FilesIndexed = int(indexed.Load())
	stats.FilesSkipped = int(skipped.Load())
	stats.FilesFailed = int(failed.Load())
	stats.FilesPruned = pruned
	stats.CacheHits = int(cacheHits.Load())
	stats.Symbols = int(symbols.Load())
	stats.Dependencies = int(dependencies.Load())
	stats.ParseErrors = int(parseErrors.Load())
	stats.ProcessingTime = time.Since(start)

	ix.progress.OnComplete(stats)
	return stats, nil
}

// pruneStale removes rows for files that are no longer discovered,
// either deleted from disk or newly ignored.
func (ix *indexer) pruneStale(store *storage.Store, writer *storage.ResultWriter, discovered map[string]bool) (int, error) {
	reader := storage.NewResultReader(store.DB())

	records, err := reader.ListFiles()
	if err != nil {
		return 0, fmt.Errorf("failed to list indexed files: %w", err)
	}

	pruned := 0
	for _, rec := range records {
		if discovered[rec.Path] {
			continue
		}
		if err := writer.DeleteFile(rec.Path); err != nil {
			return pruned, fmt.Errorf("failed to prune %s: %w", rec.Path, err)
		}
		pruned++
	}

	return pruned, nil
}

// Close releases the result cache.
func (ix *indexer) Close() error {
	ix.cache.close()
	return nil
}
