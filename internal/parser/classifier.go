package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Semantic entity types beyond the syntactic symbol kind.
const (
	EntityComponent  = "component"
	EntityComposable = "composable"
	EntityStore      = "store"
)

// reactiveHints are framework hints under which an unexported
// composable cannot be part of the framework's public surface.
var reactiveHints = map[string]bool{
	"react":  true,
	"vue":    true,
	"svelte": true,
	"solid":  true,
}

// ClassifierRule is one entry in the ordered classification table.
// All set constraints must match. Unset constraints are ignored.
type ClassifierRule struct {
	Name       string
	EntityType string

	// Path constrains the file path, slash-separated glob.
	Path glob.Glob
	// NamePattern constrains the symbol name.
	NamePattern *regexp.Regexp
	// BasePattern must match at least one base class name.
	BasePattern *regexp.Regexp
	// Kinds constrains the symbol kind.
	Kinds map[string]bool
	// Hints constrains the active framework hint.
	Hints map[string]bool
}

func (r *ClassifierRule) matches(kind, name string, bases []string, path, hint string) bool {
	if r.Kinds != nil && !r.Kinds[kind] {
		return false
	}
	if r.Hints != nil && !r.Hints[hint] {
		return false
	}
	if r.Path != nil && !r.Path.Match(path) && !r.Path.Match("./"+path) {
		return false
	}
	if r.NamePattern != nil && !r.NamePattern.MatchString(name) {
		return false
	}
	if r.BasePattern != nil {
		matched := false
		for _, b := range bases {
			if r.BasePattern.MatchString(b) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Classifier assigns semantic entity types via an ordered rule table.
// The table is fixed at construction, never mutated, and safe to share
// across goroutines.
type Classifier struct {
	rules []ClassifierRule
}

// NewClassifier builds a classifier over the given table. Rules are
// evaluated in order; the first match wins.
func NewClassifier(rules []ClassifierRule) *Classifier {
	return &Classifier{rules: rules}
}

// NewDefaultClassifier builds a classifier over DefaultClassifierRules.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultClassifierRules())
}

func mustGlob(pattern string) glob.Glob {
	return glob.MustCompile(pattern, '/')
}

// DefaultClassifierRules returns the built-in table. Path rules come
// before naming-convention rules so directory layout wins over names.
func DefaultClassifierRules() []ClassifierRule {
	funcKinds := map[string]bool{KindFunction: true}
	classKinds := map[string]bool{KindClass: true}

	return []ClassifierRule{
		{
			Name:        "components-dir",
			EntityType:  EntityComponent,
			Path:        mustGlob("**/components/**"),
			NamePattern: regexp.MustCompile(`^[A-Z]`),
			Kinds:       map[string]bool{KindFunction: true, KindClass: true},
		},
		{
			Name:       "composables-dir",
			EntityType: EntityComposable,
			Path:       mustGlob("**/composables/**"),
			Kinds:      funcKinds,
		},
		{
			Name:       "stores-dir",
			EntityType: EntityStore,
			Path:       mustGlob("**/{store,stores}/**"),
			Kinds: map[string]bool{
				KindFunction: true, KindClass: true,
				KindConstant: true, KindVariable: true,
			},
		},
		{
			Name:        "store-naming",
			EntityType:  EntityStore,
			NamePattern: regexp.MustCompile(`^use[A-Z]\w*Store$`),
			Kinds:       map[string]bool{KindFunction: true, KindConstant: true},
		},
		{
			Name:        "composable-naming",
			EntityType:  EntityComposable,
			NamePattern: regexp.MustCompile(`^use[A-Z]`),
			Kinds:       funcKinds,
		},
		{
			Name:        "component-base",
			EntityType:  EntityComponent,
			BasePattern: regexp.MustCompile(`(Component|PureComponent)$`),
			Kinds:       classKinds,
		},
		{
			Name:        "jsx-component",
			EntityType:  EntityComponent,
			NamePattern: regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`),
			Kinds:       funcKinds,
			Hints:       map[string]bool{"react": true},
		},
	}
}

// Classify resolves a symbol's semantic entity type. Returns the empty
// string when no rule matches. An unexported composable is demoted to
// a plain symbol under a reactive-UI hint, since unexported values
// cannot be part of that framework's composable surface.
func (c *Classifier) Classify(kind, name string, bases []string, filePath, hint string, exported bool) string {
	path := filepath.ToSlash(filePath)

	for i := range c.rules {
		if !c.rules[i].matches(kind, name, bases, path, hint) {
			continue
		}
		entity := c.rules[i].EntityType
		if entity == EntityComposable && !exported && reactiveHints[hint] {
			return ""
		}
		return entity
	}
	return ""
}

// HintForPath derives a framework hint from the file path alone.
func (c *Classifier) HintForPath(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx", ".jsx":
		return "react"
	case ".vue":
		return "vue"
	}
	return ""
}
