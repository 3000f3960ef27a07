package graph

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/dendrite/internal/parser"
	"github.com/mvp-joe/dendrite/internal/storage"
)

// Test Plan for GraphSearcher:
// - Query callers returns direct callers at depth 1
// - Query callers returns transitive callers, each name once at its
//   shallowest depth
// - Query callees follows call edges forward
// - Query contains and contained-by follow containment edges
// - Undeclared edge endpoints surface as external nodes
// - MaxResults truncates results and sets the truncated flag
// - Unknown targets return empty results
// - Unsupported operations return an error
// - Reload picks up rows written after the initial load
// - Name collisions resolve to the first declaration in path order

// setupTestGraph indexes two files forming the call chain
// main -> {handler, retry}, handler -> process -> fetch, retry -> fetch,
// plus a Cache class containing get and set.
func setupTestGraph(t *testing.T) (*sql.DB, Source) {
	t.Helper()

	db := storage.NewTestDB(t)
	writer := storage.NewResultWriter(db)

	app := &parser.MergedResult{
		Symbols: []parser.Symbol{
			{Name: "main", Kind: parser.KindFunction, StartLine: 1, EndLine: 10, StartColumn: 1, EndColumn: 2, Exported: true},
			{Name: "handler", Kind: parser.KindFunction, StartLine: 12, EndLine: 20, StartColumn: 1, EndColumn: 2, Exported: true},
			{Name: "retry", Kind: parser.KindFunction, StartLine: 22, EndLine: 28, StartColumn: 1, EndColumn: 2},
		},
		Dependencies: []parser.Dependency{
			{From: "main", To: "handler", Kind: parser.DepCalls, Line: 5, Confidence: 1.0},
			{From: "main", To: "retry", Kind: parser.DepCalls, Line: 6, Confidence: 1.0},
			{From: "handler", To: "process", Kind: parser.DepCalls, Line: 15, Confidence: 1.0},
			{From: "retry", To: "fetch", Kind: parser.DepCalls, Line: 24, Confidence: 1.0},
		},
		ChunkCount: 1,
	}
	require.NoError(t, writer.WriteFileResult(&storage.FileRecord{Path: "src/app.ts", Language: "typescript"}, app))

	core := &parser.MergedResult{
		Symbols: []parser.Symbol{
			{Name: "process", Kind: parser.KindFunction, StartLine: 1, EndLine: 15, StartColumn: 1, EndColumn: 2, Exported: true},
			{Name: "fetch", Kind: parser.KindFunction, StartLine: 17, EndLine: 30, StartColumn: 1, EndColumn: 2, Exported: true},
			{Name: "Cache", Kind: parser.KindClass, StartLine: 32, EndLine: 60, StartColumn: 1, EndColumn: 2, Exported: true},
			{Name: "get", QualifiedName: "Cache.get", Kind: parser.KindMethod, StartLine: 34, EndLine: 40, StartColumn: 3, EndColumn: 4},
			{Name: "set", QualifiedName: "Cache.set", Kind: parser.KindMethod, StartLine: 42, EndLine: 48, StartColumn: 3, EndColumn: 4},
		},
		Dependencies: []parser.Dependency{
			{From: "process", To: "fetch", Kind: parser.DepCalls, Line: 8, Confidence: 1.0},
			{From: "fetch", To: "sqlite3", Kind: parser.DepCalls, Line: 20, Confidence: 0.8},
			{From: "Cache", To: "get", Kind: parser.DepContains, Line: 34, Confidence: 1.0},
			{From: "Cache", To: "set", Kind: parser.DepContains, Line: 42, Confidence: 1.0},
		},
		ChunkCount: 1,
	}
	require.NoError(t, writer.WriteFileResult(&storage.FileRecord{Path: "src/core.ts", Language: "typescript"}, core))

	return db, storage.NewResultReader(db)
}

func resultNames(results []QueryResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Node.Name)
	}
	return names
}

func resultDepths(results []QueryResult) map[string]int {
	depths := make(map[string]int, len(results))
	for _, r := range results {
		depths[r.Node.Name] = r.Depth
	}
	return depths
}

func TestSearcher_QueryCallers(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	ctx := context.Background()

	tests := []struct {
		name        string
		target      string
		depth       int
		expectedIDs []string
	}{
		{
			name:        "direct callers",
			target:      "process",
			depth:       1,
			expectedIDs: []string{"handler"},
		},
		{
			name:        "transitive callers",
			target:      "fetch",
			depth:       3,
			expectedIDs: []string{"retry", "process", "main", "handler"},
		},
		{
			name:        "zero depth defaults to one",
			target:      "fetch",
			depth:       0,
			expectedIDs: []string{"retry", "process"},
		},
		{
			name:        "no callers",
			target:      "main",
			depth:       1,
			expectedIDs: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := searcher.Query(ctx, &QueryRequest{
				Operation: OperationCallers,
				Target:    tt.target,
				Depth:     tt.depth,
			})
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.expectedIDs, resultNames(resp.Results))
			assert.Equal(t, len(tt.expectedIDs), resp.TotalFound)
			assert.Equal(t, len(tt.expectedIDs), resp.TotalReturned)
			assert.False(t, resp.Truncated)
			assert.Equal(t, "graph", resp.Metadata.Source)
		})
	}
}

func TestSearcher_CallersConvergeAtShallowestDepth(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	// Test: main reaches fetch through both retry (depth 2) and
	// handler -> process (depth 3); it must appear once, at depth 2
	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation: OperationCallers,
		Target:    "fetch",
		Depth:     5,
	})
	require.NoError(t, err)

	depths := resultDepths(resp.Results)
	assert.Equal(t, map[string]int{
		"retry":   1,
		"process": 1,
		"main":    2,
		"handler": 2,
	}, depths)
	assert.Equal(t, 4, resp.TotalFound)
}

func TestSearcher_QueryCallees(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation: OperationCallees,
		Target:    "main",
		Depth:     2,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"handler", "retry", "process", "fetch"}, resultNames(resp.Results))

	depths := resultDepths(resp.Results)
	assert.Equal(t, 1, depths["handler"])
	assert.Equal(t, 2, depths["fetch"])
}

func TestSearcher_QueryContainment(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	ctx := context.Background()

	resp, err := searcher.Query(ctx, &QueryRequest{
		Operation: OperationContains,
		Target:    "Cache",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"get", "set"}, resultNames(resp.Results))

	resp, err = searcher.Query(ctx, &QueryRequest{
		Operation: OperationContainedBy,
		Target:    "get",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Cache", resp.Results[0].Node.Name)
	assert.Equal(t, parser.KindClass, resp.Results[0].Node.Kind)
}

func TestSearcher_ExternalCallee(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation: OperationCallees,
		Target:    "fetch",
	})
	require.NoError(t, err)

	// Test: sqlite3 has no declaration anywhere in the index
	require.Len(t, resp.Results, 1)
	node := resp.Results[0].Node
	assert.Equal(t, "sqlite3", node.Name)
	assert.Equal(t, KindExternal, node.Kind)
	assert.Empty(t, node.File)
}

func TestSearcher_NodeCarriesDeclarationSite(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation: OperationCallers,
		Target:    "process",
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	node := resp.Results[0].Node
	assert.Equal(t, "handler", node.Name)
	assert.Equal(t, parser.KindFunction, node.Kind)
	assert.Equal(t, "src/app.ts", node.File)
	assert.Equal(t, 12, node.StartLine)
	assert.Equal(t, 20, node.EndLine)
	assert.True(t, node.Exported)
}

func TestSearcher_MaxResultsTruncates(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation:  OperationCallers,
		Target:     "fetch",
		Depth:      3,
		MaxResults: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalFound)
	assert.Equal(t, 2, resp.TotalReturned)
	assert.Len(t, resp.Results, 2)
	assert.True(t, resp.Truncated)
}

func TestSearcher_UnknownTarget(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &QueryRequest{
		Operation: OperationCallers,
		Target:    "doesNotExist",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.TotalFound)
	assert.False(t, resp.Truncated)
}

func TestSearcher_UnsupportedOperation(t *testing.T) {
	t.Parallel()

	_, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	_, err = searcher.Query(context.Background(), &QueryRequest{
		Operation: "impact",
		Target:    "fetch",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operation")
}

func TestSearcher_ReloadPicksUpNewRows(t *testing.T) {
	t.Parallel()

	db, source := setupTestGraph(t)
	searcher, err := NewSearcher(source)
	require.NoError(t, err)
	defer searcher.Close()

	ctx := context.Background()

	resp, err := searcher.Query(ctx, &QueryRequest{Operation: OperationCallees, Target: "handler"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"process"}, resultNames(resp.Results))

	// Index another file, including a second declaration of fetch.
	util := &parser.MergedResult{
		Symbols: []parser.Symbol{
			{Name: "logit", Kind: parser.KindFunction, StartLine: 1, EndLine: 5, StartColumn: 1, EndColumn: 2},
			{Name: "fetch", Kind: parser.KindFunction, StartLine: 7, EndLine: 12, StartColumn: 1, EndColumn: 2},
		},
		Dependencies: []parser.Dependency{
			{From: "handler", To: "logit", Kind: parser.DepCalls, Line: 3, Confidence: 1.0},
		},
		ChunkCount: 1,
	}
	writer := storage.NewResultWriter(db)
	require.NoError(t, writer.WriteFileResult(&storage.FileRecord{Path: "src/util.ts", Language: "typescript"}, util))

	require.NoError(t, searcher.Reload(ctx))

	resp, err = searcher.Query(ctx, &QueryRequest{Operation: OperationCallees, Target: "handler"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"process", "logit"}, resultNames(resp.Results))

	// Test: fetch keeps its first declaration, src/core.ts sorts
	// before src/util.ts
	resp, err = searcher.Query(ctx, &QueryRequest{Operation: OperationCallees, Target: "process"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "src/core.ts", resp.Results[0].Node.File)
}
