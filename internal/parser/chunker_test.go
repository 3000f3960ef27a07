package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for chunk splitting:
// - Chunk texts concatenate back to the original source
// - Chunk line ranges are 1-based, contiguous, and gap-free
// - Input below the chunk size stays a single chunk
// - Input without safe boundaries stays a single chunk
// - Chunk indexes follow document order

func TestSplitChunks_Reassembly(t *testing.T) {
	t.Parallel()

	text, _ := buildDeclarations(60, 20)
	detector := NewBoundaryDetector()

	chunks := splitChunks(detector, []byte(text), 8<<10, nil)
	require.Greater(t, len(chunks), 1)

	// Test: concatenating chunk texts restores the source exactly
	var joined bytes.Buffer
	for _, c := range chunks {
		joined.Write(c.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestSplitChunks_LineAccounting(t *testing.T) {
	t.Parallel()

	text, _ := buildDeclarations(60, 20)
	detector := NewBoundaryDetector()

	chunks := splitChunks(detector, []byte(text), 8<<10, nil)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, 1, chunks[0].StartLine)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.GreaterOrEqual(t, c.EndLine, c.StartLine)
		if i > 0 {
			// Test: every chunk starts on the line after its predecessor
			assert.Equal(t, chunks[i-1].EndLine+1, c.StartLine)
		}
	}

	// Test: the last chunk ends on the file's last content line
	total := strings.Count(text, "\n")
	assert.Equal(t, total, chunks[len(chunks)-1].EndLine)
}

func TestSplitChunks_SmallInput(t *testing.T) {
	t.Parallel()

	detector := NewBoundaryDetector()
	source := []byte("function one() {}\n\nfunction two() {}\n")

	chunks := splitChunks(detector, source, 64<<10, nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, string(source), string(chunks[0].Text))
}

func TestSplitChunks_NoBoundaries(t *testing.T) {
	t.Parallel()

	detector := NewBoundaryDetector()

	// Test: one long line cannot be split and survives oversized
	source := []byte("const blob = \"" + strings.Repeat("a", 8192) + "\";")
	chunks := splitChunks(detector, source, 1024, nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, string(source), string(chunks[0].Text))
}

func TestMakeChunk_LineRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		startLine int
		wantEnd   int
	}{
		{"trailing newline", "a\nb\n", 1, 2},
		{"no trailing newline", "a\nb", 1, 2},
		{"single line", "a", 5, 5},
		{"single newline", "\n", 3, 3},
		{"empty", "", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := makeChunk(0, tt.startLine, []byte(tt.text))
			assert.Equal(t, tt.startLine, c.StartLine)
			assert.Equal(t, tt.wantEnd, c.EndLine)
		})
	}
}
