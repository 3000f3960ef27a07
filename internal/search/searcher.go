package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	// Registers the "simple" analyzer used by the qualified_name field.
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/simple"

	"github.com/mvp-joe/dendrite/internal/storage"
)

// Mode selects how the query string is matched against symbol names.
type Mode string

const (
	ModeKeyword Mode = "keyword" // analyzed match on name and qualified name
	ModePrefix  Mode = "prefix"  // term prefix match on name
	ModeFuzzy   Mode = "fuzzy"   // edit distance 1 match on name
)

// Result limits.
const (
	DefaultLimit = 15
	MaxLimit     = 100
)

// Source supplies the stored symbol rows the index is built from. It
// is satisfied by storage.ResultReader.
type Source interface {
	AllSymbols() ([]storage.SymbolRecord, error)
}

// Options narrows a search. The zero value means keyword mode with
// default limits and no filters.
type Options struct {
	Mode         Mode   // Match mode (default: keyword)
	Kind         string // Filter by symbol kind, exact match
	EntityType   string // Filter by entity type, exact match
	FilePath     string // Filter by file path, wildcard pattern over path segments
	ExportedOnly bool   // Only exported symbols
	Limit        int    // Maximum results (default: 15, capped at 100)
}

// DefaultOptions returns the options applied when the caller passes nil.
func DefaultOptions() *Options {
	return &Options{
		Mode:  ModeKeyword,
		Limit: DefaultLimit,
	}
}

// Result is a single symbol hit.
type Result struct {
	Name          string  `json:"name"`
	QualifiedName string  `json:"qualified_name,omitempty"`
	Kind          string  `json:"kind"`
	EntityType    string  `json:"entity_type,omitempty"`
	FilePath      string  `json:"file_path"`
	StartLine     int     `json:"start_line"`
	Exported      bool    `json:"exported"`
	Score         float64 `json:"score"` // Match quality, higher is better
}

// Searcher provides symbol name search over one index build.
type Searcher interface {
	// Search executes a symbol search. Options may be nil.
	Search(ctx context.Context, queryStr string, options *Options) ([]*Result, error)

	// Count reports the number of indexed symbols.
	Count() (uint64, error)

	// Close releases resources held by the searcher.
	Close() error
}

// searcher implements Searcher using an in-memory bleve index.
type searcher struct {
	index bleve.Index
	mu    sync.RWMutex
}

// NewSearcher creates a Searcher over all symbols in the source.
func NewSearcher(ctx context.Context, source Source) (Searcher, error) {
	symbols, err := source.AllSymbols()
	if err != nil {
		return nil, fmt.Errorf("failed to load symbols: %w", err)
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	if err := indexSymbols(ctx, index, symbols); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index symbols: %w", err)
	}

	return &searcher{index: index}, nil
}

// buildIndexMapping creates the index mapping for symbol documents.
// Name fields use the standard analyzer for case-insensitive matching;
// filter fields use the keyword analyzer for exact matching.
func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = true
	nameMapping.Index = true

	// The unicode tokenizer keeps "Cache.get" as one term; the simple
	// analyzer splits on the dot so each part matches on its own.
	qualifiedMapping := bleve.NewTextFieldMapping()
	qualifiedMapping.Analyzer = "simple"
	qualifiedMapping.Store = true
	qualifiedMapping.Index = true

	kindMapping := bleve.NewTextFieldMapping()
	kindMapping.Analyzer = "keyword"
	kindMapping.Store = true
	kindMapping.Index = true

	entityMapping := bleve.NewTextFieldMapping()
	entityMapping.Analyzer = "keyword"
	entityMapping.Store = true
	entityMapping.Index = true

	// Standard analyzer splits paths into segments, so wildcard
	// filters match per segment.
	pathMapping := bleve.NewTextFieldMapping()
	pathMapping.Analyzer = "standard"
	pathMapping.Store = true
	pathMapping.Index = true

	lineMapping := bleve.NewNumericFieldMapping()
	lineMapping.Store = true
	lineMapping.Index = false

	exportedMapping := bleve.NewBooleanFieldMapping()
	exportedMapping.Store = true
	exportedMapping.Index = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("qualified_name", qualifiedMapping)
	docMapping.AddFieldMappingsAt("kind", kindMapping)
	docMapping.AddFieldMappingsAt("entity_type", entityMapping)
	docMapping.AddFieldMappingsAt("file_path", pathMapping)
	docMapping.AddFieldMappingsAt("start_line", lineMapping)
	docMapping.AddFieldMappingsAt("exported", exportedMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// indexSymbols adds symbol documents to the index in batches.
func indexSymbols(ctx context.Context, index bleve.Index, symbols []storage.SymbolRecord) error {
	const batchSize = 1000

	batch := index.NewBatch()
	for i := range symbols {
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		rec := &symbols[i]
		if err := batch.Index(rec.ID, symbolToDocument(rec)); err != nil {
			return fmt.Errorf("failed to add symbol %s to batch: %w", rec.Symbol.Name, err)
		}

		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}

	return nil
}

// symbolToDocument converts a stored symbol to a bleve document.
func symbolToDocument(rec *storage.SymbolRecord) map[string]interface{} {
	return map[string]interface{}{
		"name":           rec.Symbol.Name,
		"qualified_name": rec.Symbol.QualifiedName,
		"kind":           rec.Symbol.Kind,
		"entity_type":    rec.Symbol.EntityType,
		"file_path":      rec.FilePath,
		"start_line":     rec.Symbol.StartLine,
		"exported":       rec.Symbol.Exported,
	}
}

// Search executes a symbol search.
func (s *searcher) Search(ctx context.Context, queryStr string, options *Options) ([]*Result, error) {
	if options == nil {
		options = DefaultOptions()
	}

	limit := options.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Prefix and fuzzy queries operate on indexed terms directly and
	// bypass analysis, so the input is lowercased to match them.
	var base query.Query
	switch options.Mode {
	case ModePrefix:
		pq := bleve.NewPrefixQuery(strings.ToLower(queryStr))
		pq.SetField("name")
		base = pq
	case ModeFuzzy:
		fq := bleve.NewFuzzyQuery(strings.ToLower(queryStr))
		fq.SetField("name")
		fq.SetFuzziness(1)
		base = fq
	default:
		nameQuery := bleve.NewMatchQuery(queryStr)
		nameQuery.SetField("name")
		qualifiedQuery := bleve.NewMatchQuery(queryStr)
		qualifiedQuery.SetField("qualified_name")
		base = bleve.NewDisjunctionQuery(nameQuery, qualifiedQuery)
	}

	queries := []query.Query{base}

	if options.Kind != "" {
		kindQuery := bleve.NewMatchQuery(options.Kind)
		kindQuery.SetField("kind")
		queries = append(queries, kindQuery)
	}

	if options.EntityType != "" {
		entityQuery := bleve.NewMatchQuery(options.EntityType)
		entityQuery.SetField("entity_type")
		queries = append(queries, entityQuery)
	}

	if options.FilePath != "" {
		pathQuery := bleve.NewWildcardQuery(strings.ToLower(options.FilePath))
		pathQuery.SetField("file_path")
		queries = append(queries, pathQuery)
	}

	if options.ExportedOnly {
		exportedQuery := bleve.NewBoolFieldQuery(true)
		exportedQuery.SetField("exported")
		queries = append(queries, exportedQuery)
	}

	var finalQuery query.Query
	if len(queries) == 1 {
		finalQuery = queries[0]
	} else {
		finalQuery = bleve.NewConjunctionQuery(queries...)
	}

	searchRequest := bleve.NewSearchRequestOptions(finalQuery, limit, 0, false)
	searchRequest.Fields = []string{"name", "qualified_name", "kind", "entity_type", "file_path", "start_line", "exported"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}

	results := make([]*Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := &Result{Score: hit.Score}
		result.Name, _ = hit.Fields["name"].(string)
		result.QualifiedName, _ = hit.Fields["qualified_name"].(string)
		result.Kind, _ = hit.Fields["kind"].(string)
		result.EntityType, _ = hit.Fields["entity_type"].(string)
		result.FilePath, _ = hit.Fields["file_path"].(string)
		result.Exported, _ = hit.Fields["exported"].(bool)

		// Numeric stored fields come back as float64
		if line, ok := hit.Fields["start_line"].(float64); ok {
			result.StartLine = int(line)
		}

		results = append(results, result)
	}

	return results, nil
}

// Count reports the number of indexed symbols.
func (s *searcher) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.DocCount()
}

// Close releases resources held by the searcher.
func (s *searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index.Close()
	}
	return nil
}
