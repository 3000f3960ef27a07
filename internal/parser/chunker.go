package parser

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var newline = []byte("\n")

// splitChunks splits source into ordered chunks at detected boundaries,
// recording 1-based global line ranges. A window with no safe boundary
// ends the split: the remainder becomes one final chunk regardless of
// size, and the size guard downstream decides its fate.
func splitChunks(detector *BoundaryDetector, source []byte, chunkSize int, extra []BoundaryPattern) []Chunk {
	var chunks []Chunk
	startLine := 1
	remaining := source

	for len(remaining) > chunkSize {
		offsets := detector.Detect(remaining, chunkSize, extra)
		if len(offsets) == 0 {
			break
		}
		cut := offsets[0]
		seg := remaining[:cut]
		chunks = append(chunks, makeChunk(len(chunks), startLine, seg))
		startLine += bytes.Count(seg, newline)
		remaining = remaining[cut:]
	}

	return append(chunks, makeChunk(len(chunks), startLine, remaining))
}

func makeChunk(index, startLine int, text []byte) Chunk {
	endLine := startLine + bytes.Count(text, newline)
	if bytes.HasSuffix(text, newline) && endLine > startLine {
		endLine--
	}
	return Chunk{Index: index, StartLine: startLine, EndLine: endLine, Text: text}
}

// processChunks runs extraction over every chunk and returns results
// in chunk order. Chunks share no mutable state, so they parse in
// parallel; each worker writes only its own slot.
func (e *Engine) processChunks(ctx context.Context, lang *Language, chunks []Chunk, filePath, hint string, limit int) []ChunkResult {
	results := make([]ChunkResult, len(chunks))

	if len(chunks) == 1 {
		results[0] = e.processChunk(lang, chunks[0], filePath, hint, limit)
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.processChunk(lang, chunks[i], filePath, hint, limit)
			return nil
		})
	}
	// Extraction failures are data in each chunk's result, never
	// errors; Wait only surfaces cancellation.
	_ = g.Wait()

	return results
}

// processChunk guards the chunk's size, parses it, extracts, and
// rebases line numbers to file-global values. A failed chunk yields
// empty result sets plus one error; siblings are unaffected.
func (e *Engine) processChunk(lang *Language, chunk Chunk, filePath, hint string, limit int) ChunkResult {
	offset := chunk.StartLine - 1

	if !e.opts.BypassSizeLimit && len(chunk.Text) > limit {
		return ChunkResult{
			ChunkIndex: chunk.Index,
			Errors: []ParseError{{
				Kind:     ErrSizeExceeded,
				Message:  fmt.Sprintf("content size %d exceeds direct parse limit %d", len(chunk.Text), limit),
				Line:     chunk.StartLine,
				Severity: SeverityError,
			}},
		}
	}

	tree, err := parseTree(lang, chunk.Text)
	if err != nil {
		return ChunkResult{
			ChunkIndex: chunk.Index,
			Errors: []ParseError{{
				Kind:     ErrSyntax,
				Message:  err.Error(),
				Line:     chunk.StartLine,
				Severity: SeverityError,
			}},
		}
	}
	defer tree.Close()

	var result ChunkResult
	if lang.Dialect == DialectTypeScript {
		result = newExtractor(lang, chunk.Text, filePath, hint, e.classifier, e.opts.IncludePrivateSymbols).extract(tree.RootNode())
	} else {
		result = newGenericExtractor(lang, chunk.Text, filePath, hint, e.classifier, e.opts.IncludePrivateSymbols).extract(tree.RootNode())
	}
	result.ChunkIndex = chunk.Index
	rebaseResult(&result, offset)
	return result
}

// rebaseResult shifts all chunk-local line numbers by the chunk's
// global offset.
func rebaseResult(res *ChunkResult, offset int) {
	if offset == 0 {
		return
	}
	for i := range res.Symbols {
		res.Symbols[i].StartLine += offset
		res.Symbols[i].EndLine += offset
	}
	for i := range res.Dependencies {
		res.Dependencies[i].Line += offset
	}
	for i := range res.Imports {
		res.Imports[i].Line += offset
	}
	for i := range res.Exports {
		res.Exports[i].Line += offset
	}
	for i := range res.Errors {
		if res.Errors[i].Line > 0 {
			res.Errors[i].Line += offset
		}
	}
}
