package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/dendrite/internal/parser"
	"github.com/mvp-joe/dendrite/internal/storage"
)

// Source supplies the stored rows the graph is built from. It is
// satisfied by storage.ResultReader.
type Source interface {
	AllSymbols() ([]storage.SymbolRecord, error)
	AllDependencies() ([]storage.DependencyRecord, error)
}

// Searcher provides dependency graph queries with reverse indexes.
type Searcher interface {
	// Query executes a graph query and returns results.
	Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error)

	// Reload rebuilds the graph from the source.
	Reload(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// searcher implements Searcher with an in-memory graph and reverse indexes.
type searcher struct {
	source Source
	mu     sync.RWMutex // Protects graph and indexes

	// In-memory graph
	graph graph.Graph[string, *Node]

	// Reverse indexes for O(1) adjacency lookups
	callers     map[string][]string // name -> [callers]
	callees     map[string][]string // name -> [callees]
	contains    map[string][]string // container -> [members]
	containedBy map[string][]string // member -> [containers]
}

// resultWithDepth is an internal type for tracking depth in traversal.
type resultWithDepth struct {
	name  string
	depth int
}

// NewSearcher creates a graph searcher and performs the initial load.
func NewSearcher(source Source) (Searcher, error) {
	s := &searcher{source: source}

	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload rebuilds the graph and reverse indexes from the source.
func (s *searcher) Reload(ctx context.Context) error {
	symbols, err := s.source.AllSymbols()
	if err != nil {
		return fmt.Errorf("failed to load symbols: %w", err)
	}

	deps, err := s.source.AllDependencies()
	if err != nil {
		return fmt.Errorf("failed to load dependencies: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = graph.New(func(n *Node) string { return n.Name }, graph.Directed())

	// Declared symbols become vertices. AddVertex keeps the existing
	// vertex on duplicates, so the first declaration wins.
	for i := range symbols {
		rec := &symbols[i]
		_ = s.graph.AddVertex(&Node{
			Name:       rec.Symbol.Name,
			Kind:       rec.Symbol.Kind,
			EntityType: rec.Symbol.EntityType,
			File:       rec.FilePath,
			StartLine:  rec.Symbol.StartLine,
			EndLine:    rec.Symbol.EndLine,
			Exported:   rec.Symbol.Exported,
		})
	}

	s.callers = make(map[string][]string)
	s.callees = make(map[string][]string)
	s.contains = make(map[string][]string)
	s.containedBy = make(map[string][]string)

	for _, rec := range deps {
		d := rec.Dependency

		// Undeclared endpoints still get a vertex so query results
		// can show imported and built-in names.
		s.ensureVertex(d.From)
		s.ensureVertex(d.To)
		_ = s.graph.AddEdge(d.From, d.To)

		switch d.Kind {
		case parser.DepCalls:
			s.callees[d.From] = append(s.callees[d.From], d.To)
			s.callers[d.To] = append(s.callers[d.To], d.From)
		case parser.DepContains:
			s.contains[d.From] = append(s.contains[d.From], d.To)
			s.containedBy[d.To] = append(s.containedBy[d.To], d.From)
		}
	}

	return nil
}

func (s *searcher) ensureVertex(name string) {
	if _, err := s.graph.Vertex(name); err == nil {
		return
	}
	_ = s.graph.AddVertex(&Node{Name: name, Kind: KindExternal})
}

// Query executes a graph query.
func (s *searcher) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()

	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var index map[string][]string
	switch req.Operation {
	case OperationCallers:
		index = s.callers
	case OperationCallees:
		index = s.callees
	case OperationContains:
		index = s.contains
	case OperationContainedBy:
		index = s.containedBy
	default:
		return nil, fmt.Errorf("unsupported operation: %s", req.Operation)
	}

	found := s.traverse(index, req.Target, depth)

	results := []QueryResult{}
	for _, rd := range found {
		if len(results) >= maxResults {
			break
		}

		node, err := s.graph.Vertex(rd.name)
		if err != nil {
			continue
		}

		results = append(results, QueryResult{Node: node, Depth: rd.depth})
	}

	return &QueryResponse{
		Operation:     string(req.Operation),
		Target:        req.Target,
		Results:       results,
		TotalFound:    len(found),
		TotalReturned: len(results),
		Truncated:     len(results) < len(found),
		Metadata: ResponseMeta{
			TookMs: int(time.Since(start).Milliseconds()),
			Source: "graph",
		},
	}, nil
}

// traverse walks the adjacency index breadth-first up to depth levels.
// Each node appears once, tagged with the depth it was first reached
// at, in deterministic index order.
func (s *searcher) traverse(index map[string][]string, target string, depth int) []resultWithDepth {
	var results []resultWithDepth

	visited := map[string]bool{target: true}
	frontier := []string{target}

	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		for _, name := range frontier {
			for _, adjacent := range index[name] {
				if visited[adjacent] {
					continue
				}
				visited[adjacent] = true
				results = append(results, resultWithDepth{name: adjacent, depth: d})
				next = append(next, adjacent)
			}
		}
		frontier = next
	}

	return results
}

// Close releases resources.
func (s *searcher) Close() error {
	return nil
}
