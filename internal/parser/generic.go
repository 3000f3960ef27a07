package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// classLikeKinds are the symbol kinds that open a class-like scope.
var classLikeKinds = map[string]bool{
	KindClass:     true,
	KindModule:    true,
	KindStruct:    true,
	KindTrait:     true,
	KindInterface: true,
	KindEnum:      true,
}

// genericExtractor is the table-driven single pass used for languages
// outside the TypeScript family. The per-language tables live in the
// registry; the traversal, scope handling, and line discipline are
// identical to the TypeScript pass.
type genericExtractor struct {
	lang           *Language
	table          *genericTable
	source         []byte
	filePath       string
	hint           string
	classifier     *Classifier
	includePrivate bool

	symbols []Symbol
	deps    []Dependency
	imports []Import
	errs    []ParseError

	scopes []scopeEntry
}

func newGenericExtractor(lang *Language, source []byte, filePath, hint string, classifier *Classifier, includePrivate bool) *genericExtractor {
	return &genericExtractor{
		lang:           lang,
		table:          lang.generic,
		source:         source,
		filePath:       filePath,
		hint:           hint,
		classifier:     classifier,
		includePrivate: includePrivate,
	}
}

func (g *genericExtractor) extract(root *sitter.Node) ChunkResult {
	g.walk(root)
	return ChunkResult{
		Symbols:      g.symbols,
		Dependencies: g.deps,
		Imports:      g.imports,
		Errors:       g.errs,
	}
}

func (g *genericExtractor) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	if n.IsMissing() {
		g.errs = append(g.errs, syntaxErrorFor(n, g.source))
		return
	}

	kind := n.Kind()
	switch {
	case kind == "ERROR":
		g.errs = append(g.errs, syntaxErrorFor(n, g.source))
		g.walkKids(n)
	case g.table.symbolKinds[kind] != "":
		g.handleSymbol(n, g.table.symbolKinds[kind])
	case g.table.importKinds[kind]:
		g.handleImport(n)
	case g.table.callKinds[kind] != "":
		g.handleCall(n, g.table.callKinds[kind])
	default:
		g.walkKids(n)
	}
}

func (g *genericExtractor) walkKids(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		g.walk(n.Child(uint(i)))
	}
}

func (g *genericExtractor) handleSymbol(n *sitter.Node, symKind string) {
	// Type specifiers double as references in C; only a specifier
	// carrying a body declares anything.
	if g.table.bodyRequired[n.Kind()] && n.ChildByFieldName("body") == nil {
		g.walkKids(n)
		return
	}

	name := genericName(n, g.source)
	if name == "" {
		g.walkKids(n)
		return
	}

	// Functions declared directly inside a class-like scope are
	// methods.
	if symKind == KindFunction && g.topScopeIsClass() {
		symKind = KindMethod
	}

	vis := ""
	if g.table.underscorePrivate && strings.HasPrefix(name, "_") {
		vis = VisibilityPrivate
	}
	exported := g.exportedOf(n, name)

	if g.includePrivate || vis != VisibilityPrivate {
		qualified := ""
		if cls := g.enclosingClass(); cls != "" && !classLikeKinds[symKind] {
			qualified = cls + "." + name
		}
		g.symbols = append(g.symbols, Symbol{
			Name:          name,
			QualifiedName: qualified,
			Kind:          symKind,
			EntityType:    g.classifier.Classify(symKind, name, nil, g.filePath, g.hint, exported),
			StartLine:     nodeStartLine(n),
			EndLine:       nodeEndLine(n),
			StartColumn:   nodeStartColumn(n),
			EndColumn:     nodeEndColumn(n),
			Exported:      exported,
			Visibility:    vis,
			Signature:     genericSignature(n, name, g.source),
		})
	}

	if classLikeKinds[symKind] || symKind == KindFunction || symKind == KindMethod {
		scopeKind := KindFunction
		if classLikeKinds[symKind] {
			scopeKind = KindClass
		}
		g.pushScope(name, scopeKind)
		g.walkKids(n)
		g.popScope()
		return
	}
	g.walkKids(n)
}

func (g *genericExtractor) handleImport(n *sitter.Node) {
	source, names := importParts(n, g.source)
	if source == "" {
		return
	}

	kind := ImportNamed
	if len(names) == 0 {
		kind = ImportSideEffect
	}
	g.imports = append(g.imports, Import{
		Source: source,
		Names:  names,
		Kind:   kind,
		Line:   nodeStartLine(n),
	})
}

func (g *genericExtractor) handleCall(n *sitter.Node, calleeField string) {
	fn := n.ChildByFieldName(calleeField)
	if fn == nil {
		g.walkKids(n)
		return
	}
	callee := cleanCallee(nodeText(fn, g.source))

	if g.table.importCalls[callee] {
		if src := firstStringArgGeneric(n, g.source); src != "" {
			g.imports = append(g.imports, Import{
				Source: src,
				Kind:   ImportSideEffect,
				Line:   nodeStartLine(n),
			})
			return
		}
	}

	if callee != "" {
		from, qualified := g.caller()
		g.deps = append(g.deps, Dependency{
			From:       from,
			To:         callee,
			Kind:       DepCalls,
			Line:       nodeStartLine(n),
			Confidence: 1.0,
			Context:    qualified,
		})
	}
	g.walkKids(n)
}

func (g *genericExtractor) pushScope(name, kind string) {
	qualified := name
	if cls := g.enclosingClass(); cls != "" && kind != KindClass {
		qualified = cls + "." + name
	}
	g.scopes = append(g.scopes, scopeEntry{name: name, kind: kind, qualified: qualified})
}

func (g *genericExtractor) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *genericExtractor) enclosingClass() string {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if g.scopes[i].kind == KindClass {
			return g.scopes[i].name
		}
	}
	return ""
}

// topScopeIsClass reports whether the innermost scope is class-like,
// distinguishing methods from functions nested inside methods.
func (g *genericExtractor) topScopeIsClass() bool {
	return len(g.scopes) > 0 && g.scopes[len(g.scopes)-1].kind == KindClass
}

func (g *genericExtractor) caller() (name, qualified string) {
	if len(g.scopes) == 0 {
		return GlobalScope, ""
	}
	top := g.scopes[len(g.scopes)-1]
	return top.name, top.qualified
}

// exportedOf applies the language's visibility convention: an explicit
// visibility node (Rust pub), a public modifier list (Java, PHP), or
// the underscore convention (Python, Ruby).
func (g *genericExtractor) exportedOf(n *sitter.Node, name string) bool {
	if g.table.visibilityNode != "" {
		return findChildByKind(n, g.table.visibilityNode) != nil
	}
	if mods := findChildByKind(n, "modifiers"); mods != nil {
		return strings.Contains(nodeText(mods, g.source), "public")
	}
	if g.table.underscorePrivate {
		return !strings.HasPrefix(name, "_")
	}
	return true
}

// genericName resolves a declaration's name across grammar shapes:
// a name field, a type field (Rust impl blocks), or a declarator chain
// (C function definitions).
func genericName(n *sitter.Node, source []byte) string {
	if f := n.ChildByFieldName("name"); f != nil {
		return nodeText(f, source)
	}
	if f := n.ChildByFieldName("type"); f != nil && f.Kind() == "type_identifier" {
		return nodeText(f, source)
	}
	if f := n.ChildByFieldName("declarator"); f != nil {
		return declaratorName(f, source)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier", "type_identifier", "constant":
			return nodeText(child, source)
		}
	}
	return ""
}

// declaratorName unwraps pointer and function declarators down to the
// declared identifier.
func declaratorName(n *sitter.Node, source []byte) string {
	for n != nil {
		if n.Kind() == "identifier" || n.Kind() == "field_identifier" {
			return nodeText(n, source)
		}
		next := n.ChildByFieldName("declarator")
		if next == nil {
			break
		}
		n = next
	}
	return ""
}

// genericSignature renders name(parameters) when the node declares a
// parameter list.
func genericSignature(n *sitter.Node, name string, source []byte) string {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	sig := name + collapseLiterals(params, source)
	if len(sig) > maxSignatureLen {
		sig = sig[:maxSignatureLen-3] + "..."
	}
	return sig
}

// importParts extracts the module path and imported names from an
// import-like node across grammars.
func importParts(n *sitter.Node, source []byte) (string, []string) {
	var src string
	var names []string

	if m := n.ChildByFieldName("module_name"); m != nil {
		// Python from-imports: module plus the imported names.
		src = nodeText(m, source)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(uint(i))
			if child.StartByte() <= m.StartByte() {
				continue
			}
			switch child.Kind() {
			case "dotted_name", "identifier", "aliased_import", "wildcard_import":
				names = append(names, nodeText(child, source))
			}
		}
		return src, names
	}

	if p := n.ChildByFieldName("path"); p != nil {
		return strings.Trim(stripQuotes(nodeText(p, source)), "<>"), nil
	}
	if a := n.ChildByFieldName("argument"); a != nil {
		return nodeText(a, source), nil
	}

	if n.NamedChildCount() > 0 {
		src = stripQuotes(nodeText(n.NamedChild(0), source))
	}
	return src, nil
}

// firstStringArgGeneric returns the unquoted first string argument of
// a call-like node, tolerating grammars without an arguments field.
func firstStringArgGeneric(n *sitter.Node, source []byte) string {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		args = findChildByKind(n, "argument_list")
	}
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(uint(i))
		switch arg.Kind() {
		case "string", "string_literal", "template_string":
			return stripQuotes(nodeText(arg, source))
		}
	}
	return ""
}
