package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Merge:
// - First occurrence wins for symbols, dependencies, imports, exports
// - Chunk order is preserved in every merged list
// - Boundary-artifact errors are filtered on multi-chunk input only
// - Cross-chunk references count dependencies whose endpoints were
//   defined in different chunks
// - Re-merging merged content changes nothing
// - The two-chunk const scenario merges without duplicates

func chunkWithSymbol(idx int, sym Symbol) ChunkResult {
	return ChunkResult{ChunkIndex: idx, Symbols: []Symbol{sym}}
}

func TestMerge_FirstWins(t *testing.T) {
	t.Parallel()

	first := Symbol{Name: "handler", Kind: KindFunction, StartLine: 10, Signature: "handler(req)"}
	dup := Symbol{Name: "handler", Kind: KindFunction, StartLine: 10, Signature: "handler(req, res)"}

	merged := Merge([]ChunkResult{
		chunkWithSymbol(0, first),
		chunkWithSymbol(1, dup),
	}, DefaultArtifactPolicy())

	require.Len(t, merged.Symbols, 1)
	// Test: the first occurrence's fields survive
	assert.Equal(t, "handler(req)", merged.Symbols[0].Signature)
	assert.Equal(t, 2, merged.ChunkCount)
}

func TestMerge_DedupAllLists(t *testing.T) {
	t.Parallel()

	dep := Dependency{From: "a", To: "b", Kind: DepCalls, Line: 3, Confidence: 1.0}
	imp := Import{Source: "react", Names: []string{"React"}, Kind: ImportDefault, Line: 1}
	exp := Export{Names: []string{"a"}, Kind: ExportNamed, Line: 9}

	res := ChunkResult{
		Symbols:      []Symbol{{Name: "a", Kind: KindFunction, StartLine: 2}},
		Dependencies: []Dependency{dep, dep},
		Imports:      []Import{imp, imp},
		Exports:      []Export{exp, exp},
	}

	merged := Merge([]ChunkResult{res, res}, DefaultArtifactPolicy())

	assert.Len(t, merged.Symbols, 1)
	assert.Len(t, merged.Dependencies, 1)
	assert.Len(t, merged.Imports, 1)
	assert.Len(t, merged.Exports, 1)
}

func TestMerge_DistinctLinesSurvive(t *testing.T) {
	t.Parallel()

	// Test: same name and kind on different lines are distinct symbols
	merged := Merge([]ChunkResult{
		chunkWithSymbol(0, Symbol{Name: "init", Kind: KindFunction, StartLine: 1}),
		chunkWithSymbol(1, Symbol{Name: "init", Kind: KindFunction, StartLine: 40}),
	}, DefaultArtifactPolicy())

	assert.Len(t, merged.Symbols, 2)
}

func TestMerge_ArtifactFiltering(t *testing.T) {
	t.Parallel()

	artifact := ParseError{Kind: ErrSyntax, Message: `parsing error in program near "..."`, Line: 1, Severity: SeverityError}
	genuine := ParseError{Kind: ErrSyntax, Message: `parsing error in class_body near "!!"`, Line: 4, Severity: SeverityError}
	oversize := ParseError{Kind: ErrSizeExceeded, Message: "parsing error in program sized out", Line: 1, Severity: SeverityError}

	multi := Merge([]ChunkResult{
		{ChunkIndex: 0, Errors: []ParseError{artifact, genuine}},
		{ChunkIndex: 1, Errors: []ParseError{oversize}},
	}, DefaultArtifactPolicy())

	// Test: only the artifact disappears; other kinds pass through
	require.Len(t, multi.Errors, 2)
	assert.Equal(t, genuine.Message, multi.Errors[0].Message)
	assert.Equal(t, ErrSizeExceeded, multi.Errors[1].Kind)

	// Test: a single-chunk parse never split, so nothing is filtered
	single := Merge([]ChunkResult{
		{ChunkIndex: 0, Errors: []ParseError{artifact}},
	}, DefaultArtifactPolicy())
	assert.Len(t, single.Errors, 1)
}

func TestMerge_CrossChunkReferences(t *testing.T) {
	t.Parallel()

	merged := Merge([]ChunkResult{
		{
			ChunkIndex: 0,
			Symbols:    []Symbol{{Name: "alpha", Kind: KindFunction, StartLine: 1}},
		},
		{
			ChunkIndex: 1,
			Symbols:    []Symbol{{Name: "beta", Kind: KindFunction, StartLine: 50}},
			Dependencies: []Dependency{
				// Both endpoints known, different chunks: counted.
				{From: "beta", To: "alpha", Kind: DepCalls, Line: 51},
				// Unknown endpoint: not counted.
				{From: "beta", To: "log", Kind: DepCalls, Line: 52},
				// Both endpoints in the same chunk: not counted.
				{From: "beta", To: "beta", Kind: DepCalls, Line: 53},
			},
		},
	}, DefaultArtifactPolicy())

	assert.Equal(t, 1, merged.CrossChunkReferences)
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	results := []ChunkResult{
		{
			ChunkIndex: 0,
			Symbols:    []Symbol{{Name: "a", Kind: KindConstant, StartLine: 1}},
			Imports:    []Import{{Source: "m", Kind: ImportSideEffect, Line: 1}},
			Errors:     []ParseError{{Kind: ErrSyntax, Message: "missing } in class_body", Line: 2, Severity: SeverityWarning}},
		},
		{
			ChunkIndex:   1,
			Symbols:      []Symbol{{Name: "b", Kind: KindConstant, StartLine: 2}},
			Dependencies: []Dependency{{From: "b", To: "a", Kind: DepCalls, Line: 2}},
			Exports:      []Export{{Names: []string{"b"}, Kind: ExportNamed, Line: 2}},
		},
	}

	once := Merge(results, DefaultArtifactPolicy())

	// Test: feeding merged content back through Merge is a fixpoint
	again := Merge([]ChunkResult{{
		ChunkIndex:   0,
		Symbols:      once.Symbols,
		Dependencies: once.Dependencies,
		Imports:      once.Imports,
		Exports:      once.Exports,
		Errors:       once.Errors,
	}}, DefaultArtifactPolicy())

	assert.Equal(t, once.Symbols, again.Symbols)
	assert.Equal(t, once.Dependencies, again.Dependencies)
	assert.Equal(t, once.Imports, again.Imports)
	assert.Equal(t, once.Exports, again.Exports)
	assert.Equal(t, once.Errors, again.Errors)
}

func TestMerge_TwoChunkConstScenario(t *testing.T) {
	t.Parallel()

	// Chunk 1 holds `const a = 1;` and chunk 2 `const b = 2;`, already
	// rebased so chunk 2 starts at global line 2.
	merged := Merge([]ChunkResult{
		chunkWithSymbol(0, Symbol{Name: "a", Kind: KindConstant, StartLine: 1, EndLine: 1}),
		chunkWithSymbol(1, Symbol{Name: "b", Kind: KindConstant, StartLine: 2, EndLine: 2}),
	}, DefaultArtifactPolicy())

	require.Len(t, merged.Symbols, 2)
	assert.Equal(t, "a", merged.Symbols[0].Name)
	assert.Equal(t, 1, merged.Symbols[0].StartLine)
	assert.Equal(t, "b", merged.Symbols[1].Name)
	assert.Equal(t, 2, merged.Symbols[1].StartLine)
	assert.Zero(t, merged.CrossChunkReferences)
}

func TestMerge_EmptyInput(t *testing.T) {
	t.Parallel()

	merged := Merge(nil, DefaultArtifactPolicy())
	assert.NotNil(t, merged.Symbols)
	assert.Empty(t, merged.Symbols)
	assert.Zero(t, merged.ChunkCount)
}

func BenchmarkMerge(b *testing.B) {
	results := make([]ChunkResult, 16)
	for i := range results {
		for j := 0; j < 200; j++ {
			results[i].Symbols = append(results[i].Symbols, Symbol{
				Name: "sym", Kind: KindFunction, StartLine: i*200 + j,
			})
			results[i].Dependencies = append(results[i].Dependencies, Dependency{
				From: "sym", To: "other", Kind: DepCalls, Line: i*200 + j,
			})
		}
		results[i].ChunkIndex = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Merge(results, DefaultArtifactPolicy())
	}
}
