package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// parseTree parses source with the language's grammar and returns the
// tree. Callers own the tree and must Close it.
func parseTree(lang *Language, source []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()

	p.SetLanguage(lang.grammar)

	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("grammar produced no tree for %s", lang.Name)
	}
	return tree, nil
}

// nodeText returns the source text covered by a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeStartLine returns the node's 1-based start line.
func nodeStartLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// nodeEndLine returns the node's 1-based end line.
func nodeEndLine(node *sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}

// nodeStartColumn returns the node's 1-based start column.
func nodeStartColumn(node *sitter.Node) int {
	return int(node.StartPosition().Column) + 1
}

// nodeEndColumn returns the node's 1-based end column.
func nodeEndColumn(node *sitter.Node) int {
	return int(node.EndPosition().Column) + 1
}

// walkTree visits node and its descendants in document order. The
// visitor returns false to skip a node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// walkChildren visits node's children without re-visiting node itself.
func walkChildren(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByKind returns the first direct child with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// findChildrenByKind returns all direct children with the given kind.
func findChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// syntaxErrorFor builds a ParseError for an error or missing node,
// with a truncated snippet of the offending text. The enclosing node
// kind is part of the message so artifact filtering can match on it.
func syntaxErrorFor(node *sitter.Node, source []byte) ParseError {
	context := "program"
	if parent := node.Parent(); parent != nil {
		context = parent.Kind()
	}

	snippet := nodeText(node, source)
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}

	msg := fmt.Sprintf("parsing error in %s near %q", context, snippet)
	severity := SeverityError
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %s in %s", node.Kind(), context)
		severity = SeverityWarning
	}

	return ParseError{
		Kind:     ErrSyntax,
		Message:  msg,
		Line:     nodeStartLine(node),
		Column:   int(node.StartPosition().Column) + 1,
		Severity: severity,
	}
}
