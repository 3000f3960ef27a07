package parser

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxSignatureLen caps symbol signature text.
const maxSignatureLen = 120

// maxCalleeLen caps the recorded callee name of a call dependency.
const maxCalleeLen = 80

// controlFlowKeywords are method names produced by malformed-parse
// recovery, never real declarations.
var controlFlowKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true,
	"catch": true, "switch": true, "try": true, "do": true,
}

// defaultExportRe recovers a best-effort exported name from
// error-recovered regions the grammar could not structure.
var defaultExportRe = regexp.MustCompile(`export\s+default\s+(?:async\s+)?(?:function\s+|class\s+)?([A-Za-z_$][A-Za-z0-9_$]*)`)

// defaultExportName scans text for a recoverable default-export name.
// Anonymous defaults yield nothing: the optional keyword group can
// match empty, leaving the keyword itself in the capture.
func defaultExportName(text string) string {
	m := defaultExportRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	switch m[1] {
	case "function", "class", "async":
		return ""
	}
	return m[1]
}

// scopeEntry is one named enclosing construct on the traversal stack.
type scopeEntry struct {
	name      string
	kind      string
	qualified string
}

// extractor accumulates all four output lists in one traversal.
// One extractor serves exactly one chunk; line numbers are chunk-local
// until the chunk processor rebases them.
type extractor struct {
	lang           *Language
	source         []byte
	filePath       string
	hint           string
	classifier     *Classifier
	includePrivate bool

	symbols []Symbol
	deps    []Dependency
	imports []Import
	exports []Export
	errs    []ParseError

	scopes []scopeEntry
}

// walkCtx carries per-branch traversal state.
type walkCtx struct {
	exported bool
}

func newExtractor(lang *Language, source []byte, filePath, hint string, classifier *Classifier, includePrivate bool) *extractor {
	return &extractor{
		lang:           lang,
		source:         source,
		filePath:       filePath,
		hint:           hint,
		classifier:     classifier,
		includePrivate: includePrivate,
	}
}

// extract runs the single pass and returns the chunk-local result.
func (e *extractor) extract(root *sitter.Node) ChunkResult {
	e.walk(root, walkCtx{})
	return ChunkResult{
		Symbols:      e.symbols,
		Dependencies: e.deps,
		Imports:      e.imports,
		Exports:      e.exports,
		Errors:       e.errs,
	}
}

func (e *extractor) walk(n *sitter.Node, ctx walkCtx) {
	if n == nil {
		return
	}
	if n.IsMissing() {
		e.errs = append(e.errs, syntaxErrorFor(n, e.source))
		return
	}

	switch e.lang.kinds[n.Kind()] {
	case kError:
		e.handleError(n, ctx)
	case kFunctionDecl:
		e.handleFunctionDecl(n, ctx)
	case kMethodDef:
		e.handleMethod(n, ctx)
	case kClassDecl:
		e.handleClass(n, ctx)
	case kInterfaceDecl:
		e.emitTypeSymbol(n, KindInterface, ctx)
		e.walkKids(n, ctx)
	case kTypeAlias:
		e.emitTypeSymbol(n, KindTypeAlias, ctx)
	case kEnumDecl:
		e.emitTypeSymbol(n, KindEnum, ctx)
	case kLexicalDecl, kVariableDecl:
		e.handleVariableDecl(n, ctx)
	case kArrowFunction, kFunctionExpr:
		e.handleClosure(n, ctx)
	case kCallExpr:
		e.handleCall(n, ctx)
	case kImportStmt:
		e.handleImport(n)
	case kExportStmt:
		e.handleExport(n, ctx)
	case kPair:
		e.handlePair(n, ctx)
	default:
		e.walkKids(n, ctx)
	}
}

func (e *extractor) walkKids(n *sitter.Node, ctx walkCtx) {
	for i := 0; i < int(n.ChildCount()); i++ {
		e.walk(n.Child(uint(i)), ctx)
	}
}

func (e *extractor) pushScope(name, kind string) {
	qualified := name
	if cls := e.enclosingClass(); cls != "" && kind != KindClass {
		qualified = cls + "." + name
	}
	e.scopes = append(e.scopes, scopeEntry{name: name, kind: kind, qualified: qualified})
}

func (e *extractor) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// enclosingClass returns the name of the nearest class-like scope.
func (e *extractor) enclosingClass() string {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if e.scopes[i].kind == KindClass {
			return e.scopes[i].name
		}
	}
	return ""
}

// caller returns the nearest enclosing named construct for dependency
// attribution. An empty stack means global scope.
func (e *extractor) caller() (name, qualified string) {
	if len(e.scopes) == 0 {
		return GlobalScope, ""
	}
	top := e.scopes[len(e.scopes)-1]
	return top.name, top.qualified
}

func (e *extractor) addSymbol(s Symbol) {
	if !e.includePrivate && s.Visibility == VisibilityPrivate {
		return
	}
	e.symbols = append(e.symbols, s)
}

func (e *extractor) handleFunctionDecl(n *sitter.Node, ctx walkCtx) {
	name := nodeText(n.ChildByFieldName("name"), e.source)
	if name == "" {
		e.handleClosure(n, ctx)
		return
	}

	vis := e.visibilityOf(n, name)
	exported := ctx.exported || hasExportModifier(n)
	e.addSymbol(Symbol{
		Name:          name,
		QualifiedName: e.qualify(name),
		Kind:          KindFunction,
		EntityType:    e.classifier.Classify(KindFunction, name, nil, e.filePath, e.hint, exported),
		StartLine:     nodeStartLine(n),
		EndLine:       nodeEndLine(n),
		StartColumn:   nodeStartColumn(n),
		EndColumn:     nodeEndColumn(n),
		Exported:      exported,
		Visibility:    vis,
		Signature:     e.buildSignature(name, n),
	})

	e.pushScope(name, KindFunction)
	e.walkKids(n, ctx)
	e.popScope()
}

func (e *extractor) handleMethod(n *sitter.Node, ctx walkCtx) {
	name := nodeText(n.ChildByFieldName("name"), e.source)

	// Constructors are structural, not declared API.
	if name == "constructor" || name == "" {
		e.walkKids(n, ctx)
		return
	}
	// Malformed-parse recovery can capture control-flow blocks as
	// methods; keep their bodies for call extraction but emit nothing.
	if controlFlowKeywords[name] {
		e.walkKids(n, ctx)
		return
	}

	vis := e.visibilityOf(n, name)
	e.addSymbol(Symbol{
		Name:          name,
		QualifiedName: e.qualify(name),
		Kind:          KindMethod,
		EntityType:    e.classifier.Classify(KindMethod, name, nil, e.filePath, e.hint, ctx.exported),
		StartLine:     nodeStartLine(n),
		EndLine:       nodeEndLine(n),
		StartColumn:   nodeStartColumn(n),
		EndColumn:     nodeEndColumn(n),
		Exported:      ctx.exported,
		Visibility:    vis,
		Signature:     e.buildSignature(name, n),
	})

	e.pushScope(name, KindMethod)
	e.walkKids(n, ctx)
	e.popScope()
}

func (e *extractor) handleClass(n *sitter.Node, ctx walkCtx) {
	name := nodeText(n.ChildByFieldName("name"), e.source)
	bases := heritageNames(n, e.source)
	exported := ctx.exported || hasExportModifier(n)

	if name == "" {
		e.pushScope(AnonymousFunction, KindClass)
		e.walkKids(n, ctx)
		e.popScope()
		return
	}

	e.addSymbol(Symbol{
		Name:        name,
		Kind:        KindClass,
		EntityType:  e.classifier.Classify(KindClass, name, bases, e.filePath, e.hint, exported),
		StartLine:   nodeStartLine(n),
		EndLine:     nodeEndLine(n),
		StartColumn: nodeStartColumn(n),
		EndColumn:   nodeEndColumn(n),
		Exported:    exported,
		Visibility:  e.visibilityOf(n, name),
	})
	for _, base := range bases {
		e.deps = append(e.deps, Dependency{
			From:       name,
			To:         base,
			Kind:       DepReferences,
			Line:       nodeStartLine(n),
			Confidence: 1.0,
		})
	}

	e.pushScope(name, KindClass)
	e.walkKids(n, ctx)
	e.popScope()
}

func (e *extractor) emitTypeSymbol(n *sitter.Node, kind string, ctx walkCtx) {
	name := nodeText(n.ChildByFieldName("name"), e.source)
	if name == "" {
		return
	}
	exported := ctx.exported || hasExportModifier(n)
	e.addSymbol(Symbol{
		Name:        name,
		Kind:        kind,
		EntityType:  e.classifier.Classify(kind, name, nil, e.filePath, e.hint, exported),
		StartLine:   nodeStartLine(n),
		EndLine:     nodeEndLine(n),
		StartColumn: nodeStartColumn(n),
		EndColumn:   nodeEndColumn(n),
		Exported:    exported,
		Visibility:  e.visibilityOf(n, name),
	})
}

func (e *extractor) handleVariableDecl(n *sitter.Node, ctx walkCtx) {
	isConst := strings.HasPrefix(nodeText(n, e.source), "const")

	for _, decl := range findChildrenByKind(n, "variable_declarator") {
		nameNode := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")

		if nameNode == nil || nameNode.Kind() != "identifier" {
			// Destructuring patterns carry no single declared name;
			// still extract from the bound value.
			if value != nil {
				e.walk(value, ctx)
			}
			continue
		}
		name := nodeText(nameNode, e.source)

		// const fs = require('...') binds a module, not a value.
		if value != nil && isRequireCall(value, e.source) {
			e.imports = append(e.imports, Import{
				Source: requireSource(value, e.source),
				Names:  []string{name},
				Kind:   ImportDefault,
				Line:   nodeStartLine(decl),
			})
			continue
		}

		if value != nil && e.isFunctionLike(value) {
			exported := ctx.exported || hasExportModifier(n)
			e.addSymbol(Symbol{
				Name:          name,
				QualifiedName: e.qualify(name),
				Kind:          KindFunction,
				EntityType:    e.classifier.Classify(KindFunction, name, nil, e.filePath, e.hint, exported),
				StartLine:     nodeStartLine(decl),
				EndLine:       nodeEndLine(decl),
				StartColumn:   nodeStartColumn(decl),
				EndColumn:     nodeEndColumn(decl),
				Exported:      exported,
				Visibility:    nameVisibility(name),
				Signature:     e.buildSignature(name, value),
			})
			e.pushScope(name, KindFunction)
			e.walkKids(value, ctx)
			e.popScope()
			continue
		}

		kind := KindVariable
		if isConst {
			kind = KindConstant
		}
		exported := ctx.exported || hasExportModifier(n)
		e.addSymbol(Symbol{
			Name:        name,
			Kind:        kind,
			EntityType:  e.classifier.Classify(kind, name, nil, e.filePath, e.hint, exported),
			StartLine:   nodeStartLine(decl),
			EndLine:     nodeEndLine(decl),
			StartColumn: nodeStartColumn(decl),
			EndColumn:   nodeEndColumn(decl),
			Exported:    exported,
			Visibility:  nameVisibility(name),
		})
		if value != nil {
			e.walk(value, ctx)
		}
	}
}

// handleClosure emits closures reached outside a declarator binding.
// Named function expressions keep their own name; everything else
// becomes a distinguished anonymous function symbol so dependency
// attribution has a target.
func (e *extractor) handleClosure(n *sitter.Node, ctx walkCtx) {
	name := AnonymousFunction
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = nodeText(nn, e.source)
	}

	e.addSymbol(Symbol{
		Name:        name,
		Kind:        KindFunction,
		EntityType:  e.classifier.Classify(KindFunction, name, nil, e.filePath, e.hint, ctx.exported),
		StartLine:   nodeStartLine(n),
		EndLine:     nodeEndLine(n),
		StartColumn: nodeStartColumn(n),
		EndColumn:   nodeEndColumn(n),
		Exported:    ctx.exported,
		Signature:   e.buildSignature(name, n),
	})

	e.pushScope(name, KindFunction)
	e.walkKids(n, ctx)
	e.popScope()
}

func (e *extractor) handlePair(n *sitter.Node, ctx walkCtx) {
	key := n.ChildByFieldName("key")
	value := n.ChildByFieldName("value")
	if key == nil || value == nil || !e.isFunctionLike(value) {
		e.walkKids(n, ctx)
		return
	}

	name := strings.Trim(nodeText(key, e.source), "\"'`")
	e.addSymbol(Symbol{
		Name:        name,
		Kind:        KindFunction,
		EntityType:  e.classifier.Classify(KindFunction, name, nil, e.filePath, e.hint, ctx.exported),
		StartLine:   nodeStartLine(n),
		EndLine:     nodeEndLine(n),
		StartColumn: nodeStartColumn(n),
		EndColumn:   nodeEndColumn(n),
		Exported:    ctx.exported,
		Visibility:  nameVisibility(name),
		Signature:   e.buildSignature(name, value),
	})
	e.pushScope(name, KindFunction)
	e.walkKids(value, ctx)
	e.popScope()
}

func (e *extractor) handleCall(n *sitter.Node, ctx walkCtx) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		e.walkKids(n, ctx)
		return
	}

	// require(...) and dynamic import(...) are imports, not calls.
	if isRequireCall(n, e.source) {
		e.imports = append(e.imports, Import{
			Source: requireSource(n, e.source),
			Kind:   ImportSideEffect,
			Line:   nodeStartLine(n),
		})
		return
	}
	if fn.Kind() == "import" {
		e.imports = append(e.imports, Import{
			Source:  firstStringArg(n, e.source),
			Kind:    ImportNamespace,
			Line:    nodeStartLine(n),
			Dynamic: true,
		})
		return
	}

	// Immediately-invoked closures produce an anonymous symbol from
	// the descent below, not a call edge.
	if containsFunctionLike(fn, e.lang) {
		e.walkKids(n, ctx)
		return
	}

	callee := cleanCallee(nodeText(fn, e.source))
	if callee != "" {
		from, qualified := e.caller()
		e.deps = append(e.deps, Dependency{
			From:       from,
			To:         callee,
			Kind:       DepCalls,
			Line:       nodeStartLine(n),
			Confidence: 1.0,
			Context:    qualified,
		})
	}
	e.walkKids(n, ctx)
}

func (e *extractor) handleImport(n *sitter.Node) {
	source := stripQuotes(nodeText(n.ChildByFieldName("source"), e.source))
	line := nodeStartLine(n)

	clause := findChildByKind(n, "import_clause")
	if clause == nil {
		e.imports = append(e.imports, Import{Source: source, Kind: ImportSideEffect, Line: line})
		return
	}

	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			e.imports = append(e.imports, Import{
				Source: source,
				Names:  []string{nodeText(child, e.source)},
				Kind:   ImportDefault,
				Line:   line,
			})
		case "namespace_import":
			if id := findChildByKind(child, "identifier"); id != nil {
				e.imports = append(e.imports, Import{
					Source: source,
					Names:  []string{nodeText(id, e.source)},
					Kind:   ImportNamespace,
					Line:   line,
				})
			}
		case "named_imports":
			var names []string
			for _, spec := range findChildrenByKind(child, "import_specifier") {
				local := spec.ChildByFieldName("alias")
				if local == nil {
					local = spec.ChildByFieldName("name")
				}
				if local != nil {
					names = append(names, nodeText(local, e.source))
				}
			}
			if len(names) > 0 {
				e.imports = append(e.imports, Import{
					Source: source,
					Names:  names,
					Kind:   ImportNamed,
					Line:   line,
				})
			}
		}
	}
}

func (e *extractor) handleExport(n *sitter.Node, ctx walkCtx) {
	line := nodeStartLine(n)
	srcNode := n.ChildByFieldName("source")
	declNode := n.ChildByFieldName("declaration")
	valueNode := n.ChildByFieldName("value")
	exportedCtx := walkCtx{exported: true}

	// Re-exports: export { a } from 'm', export * from 'm'.
	if srcNode != nil {
		names := exportClauseNames(n, e.source)
		if len(names) == 0 {
			names = []string{"*"}
		}
		e.exports = append(e.exports, Export{
			Names:  names,
			Kind:   ExportReExport,
			Source: stripQuotes(nodeText(srcNode, e.source)),
			Line:   line,
		})
		return
	}

	if findChildByKind(n, "default") != nil {
		name := "default"
		switch {
		case declNode != nil:
			if dn := declNode.ChildByFieldName("name"); dn != nil {
				name = nodeText(dn, e.source)
			}
			e.walk(declNode, exportedCtx)
		case valueNode != nil:
			if valueNode.Kind() == "identifier" {
				name = nodeText(valueNode, e.source)
			}
			e.walk(valueNode, exportedCtx)
		}
		if name == "default" {
			// Error recovery can leave the exported declaration
			// unstructured; scan the statement text for the name.
			if recovered := defaultExportName(nodeText(n, e.source)); recovered != "" {
				name = recovered
			}
		}
		e.exports = append(e.exports, Export{Names: []string{name}, Kind: ExportDefault, Line: line})
		return
	}

	if clause := findChildByKind(n, "export_clause"); clause != nil {
		names := exportClauseNames(n, e.source)
		if len(names) > 0 {
			e.exports = append(e.exports, Export{Names: names, Kind: ExportNamed, Line: line})
		}
		return
	}

	if declNode != nil {
		names := declaredNames(declNode, e.source)
		if len(names) > 0 {
			e.exports = append(e.exports, Export{Names: names, Kind: ExportNamed, Line: line})
		}
		e.walk(declNode, exportedCtx)
		return
	}

	e.walkKids(n, exportedCtx)
}

// handleError records a syntax error and scans the malformed region
// for a recoverable default export before descending into whatever
// structure the grammar salvaged.
func (e *extractor) handleError(n *sitter.Node, ctx walkCtx) {
	e.errs = append(e.errs, syntaxErrorFor(n, e.source))

	if name := defaultExportName(nodeText(n, e.source)); name != "" {
		e.exports = append(e.exports, Export{
			Names: []string{name},
			Kind:  ExportDefault,
			Line:  nodeStartLine(n),
		})
	}

	e.walkKids(n, ctx)
}

func (e *extractor) isFunctionLike(n *sitter.Node) bool {
	k := e.lang.kinds[n.Kind()]
	return k == kArrowFunction || k == kFunctionExpr
}

func (e *extractor) qualify(name string) string {
	if cls := e.enclosingClass(); cls != "" {
		return cls + "." + name
	}
	return ""
}

// visibilityOf reads an explicit accessibility modifier first, then
// falls back to the private-marker / underscore naming convention.
func (e *extractor) visibilityOf(n *sitter.Node, name string) string {
	if mod := findChildByKind(n, "accessibility_modifier"); mod != nil {
		switch nodeText(mod, e.source) {
		case "private", "protected":
			return VisibilityPrivate
		case "public":
			return VisibilityPublic
		}
	}
	return nameVisibility(name)
}

func nameVisibility(name string) string {
	if strings.HasPrefix(name, "#") || strings.HasPrefix(name, "_") {
		return VisibilityPrivate
	}
	return ""
}

// buildSignature renders name plus the parameter list, collapsing
// literal defaults and truncating to maxSignatureLen.
func (e *extractor) buildSignature(name string, fn *sitter.Node) string {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		params = fn.ChildByFieldName("parameter")
	}

	sig := name
	switch {
	case params == nil:
		sig += "()"
	case params.Kind() == "identifier":
		sig += "(" + nodeText(params, e.source) + ")"
	default:
		sig += collapseLiterals(params, e.source)
	}

	if rt := fn.ChildByFieldName("return_type"); rt != nil {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(rt, e.source)), ":"))
		if text != "" {
			sig += ": " + text
		}
	}

	if len(sig) > maxSignatureLen {
		sig = sig[:maxSignatureLen-3] + "..."
	}
	return sig
}

// collapseLiterals returns the node's text with object, array, and
// long string literals replaced by {...}, [...], and "..." markers.
func collapseLiterals(node *sitter.Node, source []byte) string {
	type span struct {
		start, end int
		marker     string
	}
	var spans []span
	base := int(node.StartByte())

	walkChildren(node, func(c *sitter.Node) bool {
		var marker string
		switch c.Kind() {
		case "object":
			marker = "{...}"
		case "array":
			marker = "[...]"
		case "string", "template_string":
			if int(c.EndByte()-c.StartByte()) <= 8 {
				return true
			}
			marker = `"..."`
		default:
			return true
		}
		spans = append(spans, span{start: int(c.StartByte()) - base, end: int(c.EndByte()) - base, marker: marker})
		return false
	})

	text := nodeText(node, source)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start < cursor {
			continue
		}
		b.WriteString(text[cursor:s.start])
		b.WriteString(s.marker)
		cursor = s.end
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// hasExportModifier reports whether the declaration itself carries an
// export keyword, for grammars that attach it to the declaration.
func hasExportModifier(n *sitter.Node) bool {
	return findChildByKind(n, "export") != nil
}

// heritageNames collects base class and interface names from a class
// heritage clause, with type arguments stripped.
func heritageNames(n *sitter.Node, source []byte) []string {
	heritage := findChildByKind(n, "class_heritage")
	if heritage == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(heritage.ChildCount()); i++ {
		clause := heritage.Child(uint(i))
		switch clause.Kind() {
		case "extends_clause", "implements_clause":
			for j := 0; j < int(clause.NamedChildCount()); j++ {
				text := nodeText(clause.NamedChild(uint(j)), source)
				if idx := strings.Index(text, "<"); idx > 0 {
					text = text[:idx]
				}
				if text != "" {
					names = append(names, text)
				}
			}
		}
	}
	return names
}

// exportClauseNames returns the exported names of an export clause,
// preferring aliases over original names.
func exportClauseNames(n *sitter.Node, source []byte) []string {
	clause := findChildByKind(n, "export_clause")
	if clause == nil {
		if ns := findChildByKind(n, "namespace_export"); ns != nil {
			if id := findChildByKind(ns, "identifier"); id != nil {
				return []string{nodeText(id, source)}
			}
		}
		return nil
	}

	var names []string
	for _, spec := range findChildrenByKind(clause, "export_specifier") {
		name := spec.ChildByFieldName("alias")
		if name == nil {
			name = spec.ChildByFieldName("name")
		}
		if name != nil {
			names = append(names, nodeText(name, source))
		}
	}
	return names
}

// declaredNames returns the names introduced by a declaration node.
func declaredNames(decl *sitter.Node, source []byte) []string {
	if name := decl.ChildByFieldName("name"); name != nil {
		return []string{nodeText(name, source)}
	}

	var names []string
	for _, d := range findChildrenByKind(decl, "variable_declarator") {
		if name := d.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			names = append(names, nodeText(name, source))
		}
	}
	return names
}

// isRequireCall reports whether n is a require('...') call.
func isRequireCall(n *sitter.Node, source []byte) bool {
	if n.Kind() != "call_expression" {
		return false
	}
	fn := n.ChildByFieldName("function")
	return fn != nil && fn.Kind() == "identifier" && nodeText(fn, source) == "require"
}

// requireSource extracts the module path of a require call.
func requireSource(n *sitter.Node, source []byte) string {
	return firstStringArg(n, source)
}

// firstStringArg returns the unquoted first string argument of a call.
func firstStringArg(n *sitter.Node, source []byte) string {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(uint(i))
		if arg.Kind() == "string" || arg.Kind() == "template_string" {
			return stripQuotes(nodeText(arg, source))
		}
	}
	return ""
}

// containsFunctionLike reports whether the callee expression wraps a
// closure, as in an immediately-invoked function expression.
func containsFunctionLike(fn *sitter.Node, lang *Language) bool {
	if fn.Kind() != "parenthesized_expression" {
		return false
	}
	for i := 0; i < int(fn.NamedChildCount()); i++ {
		k := lang.kinds[fn.NamedChild(uint(i)).Kind()]
		if k == kArrowFunction || k == kFunctionExpr {
			return true
		}
	}
	return false
}

// cleanCallee normalizes a callee expression into a dependency target
// name: receiver qualifiers dropped, optional chaining flattened,
// length bounded.
func cleanCallee(callee string) string {
	callee = strings.TrimSpace(callee)
	callee = strings.TrimPrefix(callee, "this.")
	callee = strings.TrimPrefix(callee, "self.")
	callee = strings.ReplaceAll(callee, "?.", ".")
	if strings.ContainsAny(callee, "\n(") {
		// Complex callee expressions (chained calls, inline closures)
		// do not name a stable target.
		return ""
	}
	if len(callee) > maxCalleeLen {
		return ""
	}
	return callee
}

// stripQuotes removes surrounding string quotes.
func stripQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}
