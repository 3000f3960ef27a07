package parser

import (
	"fmt"
	"strings"
)

// Symbol kinds produced by extraction.
const (
	KindFunction  = "function"
	KindMethod    = "method"
	KindClass     = "class"
	KindInterface = "interface"
	KindTypeAlias = "type_alias"
	KindEnum      = "enum"
	KindStruct    = "struct"
	KindTrait     = "trait"
	KindModule    = "module"
	KindVariable  = "variable"
	KindConstant  = "constant"
)

// Dependency kinds.
const (
	DepCalls      = "calls"
	DepImports    = "imports"
	DepReferences = "references"
	DepContains   = "contains"
	DepPackage    = "package_dependency"
)

// Import kinds.
const (
	ImportNamed      = "named"
	ImportDefault    = "default"
	ImportNamespace  = "namespace"
	ImportSideEffect = "side_effect"
)

// Export kinds.
const (
	ExportNamed    = "named"
	ExportDefault  = "default"
	ExportReExport = "re_export"
)

// Error kinds (see ParseError.Kind).
const (
	ErrSizeExceeded     = "size_exceeded"
	ErrSyntax           = "syntax_error"
	ErrBoundaryArtifact = "chunk_boundary_artifact"
)

// Error severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Visibility values. Empty means no explicit or inferred visibility.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// GlobalScope is the caller name used for calls with no enclosing
// named function, method, or class.
const GlobalScope = "<global>"

// AnonymousFunction is the symbol name given to closures that are not
// bound to any declarator, so dependency attribution has a concrete
// target instead of falling through to GlobalScope.
const AnonymousFunction = "<anonymous>"

// Symbol is one declared name in a source file. Lines are 1-based and
// inclusive. Post-merge identity is (Name, Kind, StartLine).
type Symbol struct {
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name,omitempty"` // optional, e.g. Class.method
	Kind          string `json:"kind"`
	EntityType    string `json:"entity_type,omitempty"` // semantic classification, e.g. component, composable, store
	StartLine     int    `json:"start_line"`
	EndLine       int    `json:"end_line"`
	StartColumn   int    `json:"start_column,omitempty"` // 1-based, disambiguates symbols sharing a line
	EndColumn     int    `json:"end_column,omitempty"`
	Exported      bool   `json:"exported"`
	Visibility    string `json:"visibility,omitempty"`
	Signature     string `json:"signature,omitempty"` // truncated signature text, optional
	Description   string `json:"description,omitempty"`
}

// Key returns the merge identity key for the symbol.
func (s Symbol) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%d", s.Name, s.Kind, s.StartLine)
}

// Dependency is a directed edge between two symbol names.
// Identity is (From, To, Kind, Line).
type Dependency struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Kind       string  `json:"kind"`
	Line       int     `json:"line"`
	Confidence float64 `json:"confidence"`        // 0..1, defaults to 1.0
	Context    string  `json:"context,omitempty"` // optional qualified context, e.g. enclosing class
}

// Key returns the merge identity key for the dependency.
func (d Dependency) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d", d.From, d.To, d.Kind, d.Line)
}

// Import is one module reference. Names preserves source order and may
// be empty for side-effect imports.
type Import struct {
	Source  string   `json:"source"`
	Names   []string `json:"names,omitempty"`
	Kind    string   `json:"kind"`
	Line    int      `json:"line"`
	Dynamic bool     `json:"dynamic,omitempty"` // true for dynamic import() expressions
}

// Key returns the merge identity key for the import.
func (i Import) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d", i.Source, strings.Join(i.Names, ","), i.Kind, i.Line)
}

// Export is one export statement's contribution.
type Export struct {
	Names  []string `json:"names"`
	Kind   string   `json:"kind"`
	Source string   `json:"source,omitempty"` // set for re-exports only
	Line   int      `json:"line"`
}

// Key returns the merge identity key for the export.
func (e Export) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d", strings.Join(e.Names, ","), e.Kind, e.Source, e.Line)
}

// ParseError is a non-fatal problem found while processing one file.
// Errors travel inside the result; they are never returned as Go errors
// past a single file's processing boundary.
type ParseError struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity"`
}

// Chunk is one contiguous slice of a source file, parsed independently.
// Chunks are owned by the chunk processor for the duration of one file
// and do not outlive it.
type Chunk struct {
	Index     int
	StartLine int // 1-based global line of the chunk's first line
	EndLine   int
	Text      []byte
}

// ChunkResult holds the extraction output of a single chunk, with line
// numbers already rebased to file-global values.
type ChunkResult struct {
	ChunkIndex   int
	Symbols      []Symbol
	Dependencies []Dependency
	Imports      []Import
	Exports      []Export
	Errors       []ParseError
}

// MergedResult is the final, deduplicated output for one file. Treat it
// as read-only once returned; the engine never retains a reference.
type MergedResult struct {
	Symbols              []Symbol     `json:"symbols"`
	Dependencies         []Dependency `json:"dependencies"`
	Imports              []Import     `json:"imports"`
	Exports              []Export     `json:"exports"`
	Errors               []ParseError `json:"errors"`
	ChunkCount           int          `json:"chunk_count"`
	CrossChunkReferences int          `json:"cross_chunk_references"` // diagnostic only
}

// Options configures one engine instance. Zero values are replaced by
// the corresponding defaults, see DefaultOptions.
type Options struct {
	// MaxDirectParseSize is the largest content size, in bytes, handed
	// to the grammar in one piece. Larger files are chunked; larger
	// chunks report a SizeExceeded error.
	MaxDirectParseSize int

	// ChunkSizeTarget is the size, in bytes, the boundary detector
	// aims for when splitting oversized files.
	ChunkSizeTarget int

	// ChunkThresholdMultiplier scales MaxDirectParseSize. Combined
	// with the per-language multiplier from the registry.
	ChunkThresholdMultiplier float64

	// BypassSizeLimit disables the size guard entirely: content of any
	// size is handed to the grammar in one piece.
	BypassSizeLimit bool

	// IncludePrivateSymbols keeps symbols with private visibility in
	// the result. DefaultOptions enables it; a zero Options does not.
	IncludePrivateSymbols bool

	// ExtraBoundaryPatterns are unioned with the built-in pattern
	// library and any language-specific patterns.
	ExtraBoundaryPatterns []BoundaryPattern
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MaxDirectParseSize:       1 << 20, // 1 MiB
		ChunkSizeTarget:          64 << 10,
		ChunkThresholdMultiplier: 1.0,
		BypassSizeLimit:          false,
		IncludePrivateSymbols:    true,
	}
}

// normalized fills zero-valued fields with defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MaxDirectParseSize <= 0 {
		o.MaxDirectParseSize = d.MaxDirectParseSize
	}
	if o.ChunkSizeTarget <= 0 {
		o.ChunkSizeTarget = d.ChunkSizeTarget
	}
	if o.ChunkThresholdMultiplier <= 0 {
		o.ChunkThresholdMultiplier = d.ChunkThresholdMultiplier
	}
	return o
}
