// Package parser extracts symbols, dependencies, imports, and exports
// from source files, chunking files too large for a single grammar
// pass and merging per-chunk results into one line-accurate view.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
)

// Engine is the parsing pipeline: boundary detection, chunk splitting,
// per-chunk extraction, merge, and containment inference. An Engine is
// immutable after construction and safe for concurrent use.
type Engine struct {
	opts       Options
	registry   *Registry
	detector   *BoundaryDetector
	classifier *Classifier
	artifacts  *ArtifactPolicy
}

// NewEngine creates an engine with the built-in grammar registry,
// classifier rules, and artifact policy.
func NewEngine(opts Options) *Engine {
	return NewCustomEngine(opts, NewRegistry(), NewDefaultClassifier(), DefaultArtifactPolicy())
}

// NewCustomEngine creates an engine from caller-supplied components.
// Passing a nil registry, classifier, or policy selects the built-in
// one.
func NewCustomEngine(opts Options, registry *Registry, classifier *Classifier, artifacts *ArtifactPolicy) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	if classifier == nil {
		classifier = NewDefaultClassifier()
	}
	if artifacts == nil {
		artifacts = DefaultArtifactPolicy()
	}
	return &Engine{
		opts:       opts.normalized(),
		registry:   registry,
		detector:   NewBoundaryDetector(opts.ExtraBoundaryPatterns...),
		classifier: classifier,
		artifacts:  artifacts,
	}
}

// Supports reports whether the engine has a grammar for the file.
func (e *Engine) Supports(filePath string) bool {
	_, err := e.registry.ForPath(filePath)
	return err == nil
}

// Extensions returns the file extensions the engine can parse.
func (e *Engine) Extensions() []string {
	return e.registry.Extensions()
}

// LanguageName returns the name of the grammar that handles the file.
func (e *Engine) LanguageName(filePath string) (string, error) {
	lang, err := e.registry.ForPath(filePath)
	if err != nil {
		return "", err
	}
	return lang.Name, nil
}

// ParseFile parses source under its real path, so path-based
// classification rules see the location the file came from.
func (e *Engine) ParseFile(ctx context.Context, filePath string, source []byte) (*MergedResult, error) {
	res, err := e.ParseSource(ctx, filePath, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.ToSlash(filePath), err)
	}
	return res, nil
}

// ParseSource runs the full pipeline over one file's content.
//
// Files above the chunking threshold are split at safe boundaries and
// the chunks parsed independently, in parallel, before a sequential
// merge. Malformed or oversized content is reported inside the result
// as ParseErrors; the returned error covers only unsupported languages
// and cancellation.
func (e *Engine) ParseSource(ctx context.Context, filePath string, source []byte) (*MergedResult, error) {
	lang, err := e.registry.ForPath(filePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hint := e.classifier.HintForPath(filePath)
	limit := e.opts.MaxDirectParseSize
	threshold := int(float64(limit) * e.opts.ChunkThresholdMultiplier * lang.ThresholdMultiplier)

	var chunks []Chunk
	if len(source) > threshold {
		chunks = splitChunks(e.detector, source, e.opts.ChunkSizeTarget, lang.ExtraPatterns)
	} else {
		chunks = []Chunk{makeChunk(0, 1, source)}
	}

	results := e.processChunks(ctx, lang, chunks, filePath, hint, limit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(results, e.artifacts)
	merged.Dependencies = append(merged.Dependencies, InferContainment(merged.Symbols)...)
	return merged, nil
}
