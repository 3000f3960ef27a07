package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/dendrite/internal/parser"
)

// contentHash returns the hex SHA-256 of the file content.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// optionsFingerprint folds the options that change parse output into
// the cache key, so results parsed under different settings never mix.
func optionsFingerprint(opts parser.Options) string {
	return fmt.Sprintf("%d|%d|%g|%t|%t",
		opts.MaxDirectParseSize,
		opts.ChunkSizeTarget,
		opts.ChunkThresholdMultiplier,
		opts.BypassSizeLimit,
		opts.IncludePrivateSymbols,
	)
}

// cacheKey identifies one parse. The path participates because entity
// classification reads it; identical content at two paths can classify
// differently.
func cacheKey(relPath, hash, fingerprint string) string {
	return relPath + "|" + hash + "|" + fingerprint
}

// resultCache memoizes parse results across runs of one Indexer, so
// re-indexing an unchanged tree skips the grammar entirely. Cached
// results are shared pointers; results are read-only by contract.
type resultCache struct {
	cache otter.Cache[string, *parser.MergedResult]
}

// newResultCache builds a cache holding up to entries results. A zero
// or negative size disables caching; the returned nil cache is safe to
// use.
func newResultCache(entries int) (*resultCache, error) {
	if entries <= 0 {
		return nil, nil
	}

	cache, err := otter.MustBuilder[string, *parser.MergedResult](entries).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}

	return &resultCache{cache: cache}, nil
}

func (c *resultCache) get(key string) (*parser.MergedResult, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *resultCache) set(key string, res *parser.MergedResult) {
	if c == nil {
		return
	}
	c.cache.Set(key, res)
}

func (c *resultCache) close() {
	if c != nil {
		c.cache.Close()
	}
}
