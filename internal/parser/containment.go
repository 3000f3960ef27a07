package parser

// isContainmentParent reports whether a symbol can own contains edges.
// Classes, functions, and methods qualify by kind; classified entities
// qualify regardless of kind so component wrappers still show their
// internals.
func isContainmentParent(s Symbol) bool {
	switch s.Kind {
	case KindClass, KindFunction, KindMethod:
		return true
	}
	switch s.EntityType {
	case EntityComponent, EntityComposable, EntityStore:
		return true
	}
	return false
}

// isContainmentChild reports whether a symbol can be contained.
func isContainmentChild(s Symbol) bool {
	return s.Kind == KindFunction || s.Kind == KindMethod
}

// strictlyContains reports whether outer's range strictly encloses
// inner's. Columns break the tie when both ends share a line, so
// nested declarations written on one line still nest; symbols carrying
// no column information never contain anything on the same line.
func strictlyContains(outer, inner Symbol) bool {
	startsBefore := outer.StartLine < inner.StartLine ||
		(outer.StartLine == inner.StartLine && outer.StartColumn > 0 && outer.StartColumn < inner.StartColumn)
	endsAfter := outer.EndLine > inner.EndLine ||
		(outer.EndLine == inner.EndLine && inner.EndColumn > 0 && outer.EndColumn > inner.EndColumn)
	return startsBefore && endsAfter
}

// InferContainment derives contains dependencies from the merged
// symbol list. Every function or method links to its nearest enclosing
// candidate only: an edge parent→child is dropped when a third
// candidate sits strictly between the two, so the edges form a tree of
// direct nesting rather than a transitive closure.
//
// Quadratic over the candidate lists, which is acceptable at file
// scope.
func InferContainment(symbols []Symbol) []Dependency {
	var parents, children []Symbol
	for _, s := range symbols {
		if isContainmentParent(s) {
			parents = append(parents, s)
		}
		if isContainmentChild(s) {
			children = append(children, s)
		}
	}

	var edges []Dependency
	for _, child := range children {
		for _, parent := range parents {
			if parent == child || !strictlyContains(parent, child) {
				continue
			}
			nearest := true
			for _, mid := range parents {
				if mid == parent || mid == child {
					continue
				}
				if strictlyContains(parent, mid) && strictlyContains(mid, child) {
					nearest = false
					break
				}
			}
			if !nearest {
				continue
			}
			edges = append(edges, Dependency{
				From:       parent.Name,
				To:         child.Name,
				Kind:       DepContains,
				Line:       child.StartLine,
				Confidence: 1.0,
			})
		}
	}
	return edges
}
