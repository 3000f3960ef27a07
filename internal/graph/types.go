package graph

// KindExternal marks an edge endpoint that has no declaration in the
// index, e.g. an imported or built-in name.
const KindExternal = "external"

// Node represents one named code entity with its first declaration
// site. When a name is declared in multiple files, the declaration
// that sorts first by (path, position) wins.
type Node struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	EntityType string `json:"entity_type,omitempty"`
	File       string `json:"file,omitempty"`
	StartLine  int    `json:"start_line,omitempty"`
	EndLine    int    `json:"end_line,omitempty"`
	Exported   bool   `json:"exported,omitempty"`
}

// QueryOperation represents the type of graph query to perform.
type QueryOperation string

const (
	OperationCallers     QueryOperation = "callers"
	OperationCallees     QueryOperation = "callees"
	OperationContains    QueryOperation = "contains"
	OperationContainedBy QueryOperation = "contained-by"
)

// Query defaults and limits.
const (
	DefaultDepth      = 1
	DefaultMaxResults = 100
	MaxDepth          = 10
)

// QueryRequest represents a graph query request.
type QueryRequest struct {
	Operation  QueryOperation // Type of query
	Target     string         // Symbol name to query
	Depth      int            // Traversal depth (default: 1, capped at MaxDepth)
	MaxResults int            // Maximum number of results (default: 100)
}

// QueryResponse represents the response to a graph query.
type QueryResponse struct {
	Operation     string        `json:"operation"`
	Target        string        `json:"target"`
	Results       []QueryResult `json:"results"`
	TotalFound    int           `json:"total_found"`
	TotalReturned int           `json:"total_returned"`
	Truncated     bool          `json:"truncated"`
	Metadata      ResponseMeta  `json:"metadata"`
}

// QueryResult represents a single result from a graph query.
type QueryResult struct {
	Node  *Node `json:"node"`
	Depth int   `json:"depth"` // Traversal depth at which the node was first reached
}

// ResponseMeta contains metadata about the query execution.
type ResponseMeta struct {
	TookMs int    `json:"took_ms"`
	Source string `json:"source"` // Always "graph"
}
