package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// Test Plan for ResultCache:
// - Entries round-trip by key, unknown keys miss
// - A zero-entry cache is disabled but safe to use
// - Cache keys separate path, content, and option changes
// - Content hashes are stable and content-sensitive

func TestResultCache_RoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := newResultCache(16)
	require.NoError(t, err)
	require.NotNil(t, cache)
	defer cache.close()

	res := &parser.MergedResult{ChunkCount: 1}
	cache.set("a", res)

	got, hit := cache.get("a")
	assert.True(t, hit)
	assert.Same(t, res, got)

	_, hit = cache.get("b")
	assert.False(t, hit)
}

func TestResultCache_Disabled(t *testing.T) {
	t.Parallel()

	cache, err := newResultCache(0)
	require.NoError(t, err)
	require.Nil(t, cache)

	// Test: the nil cache misses everything and never panics
	cache.set("a", &parser.MergedResult{})
	_, hit := cache.get("a")
	assert.False(t, hit)
	cache.close()
}

func TestCacheKey_SeparatesInputs(t *testing.T) {
	t.Parallel()

	base := cacheKey("src/app.ts", "abc", "1|2|1|false|true")

	assert.NotEqual(t, base, cacheKey("src/other.ts", "abc", "1|2|1|false|true"))
	assert.NotEqual(t, base, cacheKey("src/app.ts", "def", "1|2|1|false|true"))
	assert.NotEqual(t, base, cacheKey("src/app.ts", "abc", "9|2|1|false|true"))
	assert.Equal(t, base, cacheKey("src/app.ts", "abc", "1|2|1|false|true"))
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := contentHash([]byte("const x = 1;"))
	b := contentHash([]byte("const x = 2;"))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, contentHash([]byte("const x = 1;")))
}

func TestOptionsFingerprint(t *testing.T) {
	t.Parallel()

	base := optionsFingerprint(parser.DefaultOptions())

	changed := parser.DefaultOptions()
	changed.ChunkSizeTarget = 1 << 10
	assert.NotEqual(t, base, optionsFingerprint(changed))

	flipped := parser.DefaultOptions()
	flipped.BypassSizeLimit = true
	assert.NotEqual(t, base, optionsFingerprint(flipped))

	assert.Equal(t, base, optionsFingerprint(parser.DefaultOptions()))
}
