package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/dendrite/internal/parser"
	"github.com/mvp-joe/dendrite/internal/storage"
)

// Test Plan for SymbolSearcher:
// - Keyword mode matches symbol names case-insensitively
// - Keyword mode also matches qualified names
// - Prefix mode matches name prefixes regardless of input case
// - Fuzzy mode tolerates one edit
// - Kind, entity type, file path, and exported filters narrow results
// - Limit caps the number of results
// - Count reports the number of indexed symbols
// - nil options fall back to keyword mode with default limits

// setupTestSearcher indexes five symbols across three files.
func setupTestSearcher(t *testing.T) Searcher {
	t.Helper()

	db := storage.NewTestDB(t)
	writer := storage.NewResultWriter(db)

	files := []struct {
		path string
		res  *parser.MergedResult
	}{
		{
			path: "src/parser/app.ts",
			res: &parser.MergedResult{
				Symbols: []parser.Symbol{
					{Name: "parseFile", Kind: parser.KindFunction, StartLine: 3, EndLine: 20, StartColumn: 1, EndColumn: 2, Exported: true, Visibility: parser.VisibilityPublic},
					{Name: "parseChunk", Kind: parser.KindFunction, StartLine: 22, EndLine: 40, StartColumn: 1, EndColumn: 2},
				},
				ChunkCount: 1,
			},
		},
		{
			path: "src/components/Button.tsx",
			res: &parser.MergedResult{
				Symbols: []parser.Symbol{
					{Name: "Button", Kind: parser.KindClass, EntityType: "component", StartLine: 5, EndLine: 30, StartColumn: 1, EndColumn: 2, Exported: true},
					{Name: "render", QualifiedName: "Button.render", Kind: parser.KindMethod, StartLine: 10, EndLine: 14, StartColumn: 3, EndColumn: 4},
				},
				ChunkCount: 1,
			},
		},
		{
			path: "src/stores/cart.ts",
			res: &parser.MergedResult{
				Symbols: []parser.Symbol{
					{Name: "useCartStore", Kind: parser.KindFunction, EntityType: "store", StartLine: 2, EndLine: 25, StartColumn: 1, EndColumn: 2, Exported: true},
				},
				ChunkCount: 1,
			},
		},
	}

	for _, f := range files {
		require.NoError(t, writer.WriteFileResult(&storage.FileRecord{Path: f.path, Language: "typescript"}, f.res))
	}

	searcher, err := NewSearcher(context.Background(), storage.NewResultReader(db))
	require.NoError(t, err)
	t.Cleanup(func() { searcher.Close() })

	return searcher
}

func searchNames(results []*Result) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return names
}

func TestSearcher_KeywordMatch(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)
	ctx := context.Background()

	results, err := searcher.Search(ctx, "parseFile", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	hit := results[0]
	assert.Equal(t, "parseFile", hit.Name)
	assert.Equal(t, parser.KindFunction, hit.Kind)
	assert.Equal(t, "src/parser/app.ts", hit.FilePath)
	assert.Equal(t, 3, hit.StartLine)
	assert.True(t, hit.Exported)
	assert.Greater(t, hit.Score, 0.0)

	// Test: analyzed match is case-insensitive
	results, err = searcher.Search(ctx, "PARSEFILE", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "parseFile", results[0].Name)
}

func TestSearcher_KeywordMatchesQualifiedName(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)

	// "Button" appears in the class name and in the method's
	// qualified name Button.render
	results, err := searcher.Search(context.Background(), "Button", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Button", "render"}, searchNames(results))
}

func TestSearcher_PrefixMatch(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)
	ctx := context.Background()

	results, err := searcher.Search(ctx, "parse", &Options{Mode: ModePrefix})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"parseFile", "parseChunk"}, searchNames(results))

	// Test: input is lowercased before matching indexed terms
	results, err = searcher.Search(ctx, "PARSE", &Options{Mode: ModePrefix})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"parseFile", "parseChunk"}, searchNames(results))
}

func TestSearcher_FuzzyMatch(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)
	ctx := context.Background()

	// One character missing
	results, err := searcher.Search(ctx, "parseFil", &Options{Mode: ModeFuzzy})
	require.NoError(t, err)
	assert.Contains(t, searchNames(results), "parseFile")

	// One character substituted
	results, err = searcher.Search(ctx, "buttan", &Options{Mode: ModeFuzzy})
	require.NoError(t, err)
	assert.Contains(t, searchNames(results), "Button")
}

func TestSearcher_Filters(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		options  *Options
		expected []string
	}{
		{
			name:     "kind filter keeps matching kinds",
			query:    "Button",
			options:  &Options{Kind: parser.KindClass},
			expected: []string{"Button"},
		},
		{
			name:     "kind filter excludes other kinds",
			query:    "Button",
			options:  &Options{Kind: parser.KindFunction},
			expected: []string{},
		},
		{
			name:     "entity type filter",
			query:    "use",
			options:  &Options{Mode: ModePrefix, EntityType: "store"},
			expected: []string{"useCartStore"},
		},
		{
			name:     "file path filter keeps matching paths",
			query:    "parse",
			options:  &Options{Mode: ModePrefix, FilePath: "parser*"},
			expected: []string{"parseFile", "parseChunk"},
		},
		{
			name:     "file path filter excludes other paths",
			query:    "parse",
			options:  &Options{Mode: ModePrefix, FilePath: "components*"},
			expected: []string{},
		},
		{
			name:     "exported only",
			query:    "parse",
			options:  &Options{Mode: ModePrefix, ExportedOnly: true},
			expected: []string{"parseFile"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results, err := searcher.Search(ctx, tt.query, tt.options)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, searchNames(results))
		})
	}
}

func TestSearcher_LimitCapsResults(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)

	results, err := searcher.Search(context.Background(), "parse", &Options{Mode: ModePrefix, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearcher_Count(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)

	count, err := searcher.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
}

func TestSearcher_EntityTypeRoundTrip(t *testing.T) {
	t.Parallel()

	searcher := setupTestSearcher(t)

	results, err := searcher.Search(context.Background(), "useCartStore", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "store", results[0].EntityType)
	assert.Equal(t, "src/stores/cart.ts", results[0].FilePath)
}
