package parser

import "strings"

// ArtifactPolicy lists syntax-error message substrings that identify
// noise produced by splitting a file mid-construct rather than real
// defects in the source. The merger drops matching errors when more
// than one chunk contributed to the result; a single-chunk parse never
// split anything, so its errors always survive.
//
// The list is policy, not contract: callers with different grammars or
// split patterns can supply their own.
type ArtifactPolicy struct {
	Substrings []string
}

// DefaultArtifactPolicy returns the artifact substrings observed when
// the generic boundary patterns cut between declarations. They are all
// structural: a chunk that begins or ends mid-construct reports a
// generic error against its outermost container.
func DefaultArtifactPolicy() *ArtifactPolicy {
	return &ArtifactPolicy{
		Substrings: []string{
			"parsing error in program",
			"parsing error in statement_block",
			"parsing error in expression_statement",
			"parsing error in identifier",
			"unexpected end of input",
		},
	}
}

// isArtifact reports whether err matches the policy. Only syntax
// errors are ever artifacts; size and other error kinds pass through.
func (p *ArtifactPolicy) isArtifact(err ParseError) bool {
	if p == nil || err.Kind != ErrSyntax {
		return false
	}
	for _, sub := range p.Substrings {
		if strings.Contains(err.Message, sub) {
			return true
		}
	}
	return false
}

// Merge reassembles per-chunk results, in chunk order, into a single
// deduplicated result. First occurrence wins for every list: symbols
// by (name, kind, start line), dependencies by (from, to, kind, line),
// imports and exports by their field tuples. Duplicates are expected
// near chunk boundaries and are suppressed silently rather than
// reported.
//
// Merge never mutates its inputs, and merging already-merged content
// again changes nothing.
func Merge(results []ChunkResult, policy *ArtifactPolicy) *MergedResult {
	merged := &MergedResult{
		Symbols:      []Symbol{},
		Dependencies: []Dependency{},
		Imports:      []Import{},
		Exports:      []Export{},
		Errors:       []ParseError{},
		ChunkCount:   len(results),
	}

	seenSymbols := make(map[string]bool)
	seenDeps := make(map[string]bool)
	seenImports := make(map[string]bool)
	seenExports := make(map[string]bool)

	// symbolChunk records the chunk that first defined each name, for
	// the cross-chunk reference count below.
	symbolChunk := make(map[string]int)

	for _, res := range results {
		for _, sym := range res.Symbols {
			key := sym.Key()
			if seenSymbols[key] {
				continue
			}
			seenSymbols[key] = true
			if _, ok := symbolChunk[sym.Name]; !ok {
				symbolChunk[sym.Name] = res.ChunkIndex
			}
			merged.Symbols = append(merged.Symbols, sym)
		}

		for _, dep := range res.Dependencies {
			key := dep.Key()
			if seenDeps[key] {
				continue
			}
			seenDeps[key] = true
			merged.Dependencies = append(merged.Dependencies, dep)
		}

		for _, imp := range res.Imports {
			key := imp.Key()
			if seenImports[key] {
				continue
			}
			seenImports[key] = true
			merged.Imports = append(merged.Imports, imp)
		}

		for _, exp := range res.Exports {
			key := exp.Key()
			if seenExports[key] {
				continue
			}
			seenExports[key] = true
			merged.Exports = append(merged.Exports, exp)
		}

		for _, perr := range res.Errors {
			if len(results) > 1 && policy.isArtifact(perr) {
				continue
			}
			merged.Errors = append(merged.Errors, perr)
		}
	}

	// A dependency whose endpoints are both known symbols defined in
	// different chunks is a cross-chunk reference. Diagnostic only.
	for _, dep := range merged.Dependencies {
		fromChunk, fromKnown := symbolChunk[dep.From]
		toChunk, toKnown := symbolChunk[dep.To]
		if fromKnown && toKnown && fromChunk != toChunk {
			merged.CrossChunkReferences++
		}
	}

	return merged
}
