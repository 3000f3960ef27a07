package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for InferContainment:
// - Nested ranges produce nearest-parent edges only, never transitive
// - Symbols sharing a line nest by column
// - Classified entities qualify as parents regardless of kind
// - Non-function symbols are never children
// - Identical or overlapping ranges produce no edge

func span(name, kind string, startLine, endLine int) Symbol {
	return Symbol{Name: name, Kind: kind, StartLine: startLine, EndLine: endLine}
}

func TestInferContainment_NearestParent(t *testing.T) {
	t.Parallel()

	// A wraps B wraps C.
	edges := InferContainment([]Symbol{
		span("A", KindFunction, 1, 30),
		span("B", KindFunction, 5, 20),
		span("C", KindFunction, 8, 12),
	})

	require.Len(t, edges, 2)

	byTarget := map[string]Dependency{}
	for _, e := range edges {
		assert.Equal(t, DepContains, e.Kind)
		byTarget[e.To] = e
	}

	// Test: edges follow direct nesting, A→C never appears
	assert.Equal(t, "A", byTarget["B"].From)
	assert.Equal(t, "B", byTarget["C"].From)
	assert.Equal(t, 8, byTarget["C"].Line)
}

func TestInferContainment_SameLineByColumn(t *testing.T) {
	t.Parallel()

	// function outer(){ function inner(){} } on one line.
	outer := Symbol{Name: "outer", Kind: KindFunction, StartLine: 1, EndLine: 1, StartColumn: 1, EndColumn: 40}
	inner := Symbol{Name: "inner", Kind: KindFunction, StartLine: 1, EndLine: 1, StartColumn: 19, EndColumn: 38}

	edges := InferContainment([]Symbol{outer, inner})
	require.Len(t, edges, 1)
	assert.Equal(t, "outer", edges[0].From)
	assert.Equal(t, "inner", edges[0].To)
	assert.Equal(t, 1, edges[0].Line)
}

func TestInferContainment_EntityParents(t *testing.T) {
	t.Parallel()

	// A store constant is a parent by entity type, not by kind.
	store := Symbol{Name: "useCartStore", Kind: KindConstant, EntityType: EntityStore, StartLine: 1, EndLine: 20}
	helper := span("recalculate", KindFunction, 5, 10)

	edges := InferContainment([]Symbol{store, helper})
	require.Len(t, edges, 1)
	assert.Equal(t, "useCartStore", edges[0].From)
	assert.Equal(t, "recalculate", edges[0].To)
}

func TestInferContainment_ChildKinds(t *testing.T) {
	t.Parallel()

	// Test: classes and constants are never children
	edges := InferContainment([]Symbol{
		span("Outer", KindClass, 1, 30),
		span("Inner", KindClass, 5, 20),
		span("LIMIT", KindConstant, 6, 6),
	})
	assert.Empty(t, edges)

	// Test: methods are children
	edges = InferContainment([]Symbol{
		span("Outer", KindClass, 1, 30),
		span("run", KindMethod, 5, 10),
	})
	require.Len(t, edges, 1)
	assert.Equal(t, "Outer", edges[0].From)
	assert.Equal(t, "run", edges[0].To)
}

func TestInferContainment_NoStrictContainment(t *testing.T) {
	t.Parallel()

	// Identical ranges do not contain each other.
	edges := InferContainment([]Symbol{
		span("a", KindFunction, 1, 10),
		span("b", KindFunction, 1, 10),
	})
	assert.Empty(t, edges)

	// Equal boundaries without columns do not nest.
	edges = InferContainment([]Symbol{
		span("outer", KindFunction, 1, 10),
		span("tail", KindFunction, 5, 10),
	})
	assert.Empty(t, edges)

	// Columns on the shared end line break the tie.
	outer := Symbol{Name: "outer", Kind: KindFunction, StartLine: 1, EndLine: 10, StartColumn: 1, EndColumn: 50}
	tail := Symbol{Name: "tail", Kind: KindFunction, StartLine: 5, EndLine: 10, StartColumn: 3, EndColumn: 20}
	edges = InferContainment([]Symbol{outer, tail})
	require.Len(t, edges, 1)
	assert.Equal(t, "outer", edges[0].From)
}
