package parser

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsphp "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLanguage is returned when no grammar is registered for
// a file's extension.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Dialect selects the extraction strategy for a language.
type Dialect int

const (
	// DialectTypeScript uses the full TypeScript/JavaScript extraction
	// pass, including import/export and closure handling.
	DialectTypeScript Dialect = iota

	// DialectGeneric uses the table-driven extraction pass.
	DialectGeneric
)

// nodeKind is the closed set of tree node categories the TypeScript
// extraction pass dispatches on. Grammar kind strings are mapped into
// it once at registry construction.
type nodeKind uint8

const (
	kOther nodeKind = iota
	kFunctionDecl
	kMethodDef
	kArrowFunction
	kFunctionExpr
	kClassDecl
	kInterfaceDecl
	kTypeAlias
	kEnumDecl
	kLexicalDecl
	kVariableDecl
	kCallExpr
	kImportStmt
	kExportStmt
	kPair
	kError
)

// tsNodeKinds maps tree-sitter-typescript node kind strings into the
// closed nodeKind set.
func tsNodeKinds() map[string]nodeKind {
	return map[string]nodeKind{
		"function_declaration":           kFunctionDecl,
		"generator_function_declaration": kFunctionDecl,
		"method_definition":              kMethodDef,
		"arrow_function":                 kArrowFunction,
		"function_expression":            kFunctionExpr,
		"function":                       kFunctionExpr,
		"generator_function":             kFunctionExpr,
		"class_declaration":              kClassDecl,
		"abstract_class_declaration":     kClassDecl,
		"interface_declaration":          kInterfaceDecl,
		"type_alias_declaration":         kTypeAlias,
		"enum_declaration":               kEnumDecl,
		"lexical_declaration":            kLexicalDecl,
		"variable_declaration":           kVariableDecl,
		"call_expression":                kCallExpr,
		"import_statement":               kImportStmt,
		"export_statement":               kExportStmt,
		"pair":                           kPair,
		"ERROR":                          kError,
	}
}

// genericTable drives the table-driven extraction pass for languages
// other than the TypeScript family.
type genericTable struct {
	// symbolKinds maps grammar node kinds to the symbol kind emitted.
	symbolKinds map[string]string
	// importKinds are node kinds emitting Import entries.
	importKinds map[string]bool
	// callKinds maps call node kinds to the field holding the callee.
	callKinds map[string]string
	// importCalls are callee names folded into the import list instead
	// of the dependency list (e.g. require in Ruby).
	importCalls map[string]bool
	// bodyRequired marks symbol node kinds that only declare when a
	// body child is present (C type specifiers double as references).
	bodyRequired map[string]bool
	// visibilityNode is the child node kind marking an exported
	// declaration (e.g. visibility_modifier in Rust). Empty disables.
	visibilityNode string
	// underscorePrivate infers private visibility from a leading
	// underscore in the symbol name.
	underscorePrivate bool
}

// Language binds a grammar to its extraction strategy, chunking
// parameters, and boundary patterns. Immutable after registry
// construction.
type Language struct {
	Name                string
	Dialect             Dialect
	ThresholdMultiplier float64
	ExtraPatterns       []BoundaryPattern

	grammar *sitter.Language
	kinds   map[string]nodeKind
	generic *genericTable
}

// Grammar returns the tree-sitter grammar for this language.
func (l *Language) Grammar() *sitter.Language {
	return l.grammar
}

// Registry maps file extensions to languages. Built once and never
// mutated afterward, so it is safe to share across goroutines.
type Registry struct {
	byExt map[string]*Language
}

// NewRegistry builds the default registry covering the TypeScript
// family, Python, Ruby, Rust, Java, C, and PHP.
func NewRegistry() *Registry {
	tsKinds := tsNodeKinds()

	tsLang := &Language{
		Name:                "typescript",
		Dialect:             DialectTypeScript,
		ThresholdMultiplier: 1.1,
		ExtraPatterns: []BoundaryPattern{
			mustBoundaryPattern("ts-type-decl", `(\n[ \t]*\n)(?:export[ \t]+)?(?:interface|type|enum|abstract[ \t]+class|namespace)[ \t]`, 1),
			mustBoundaryPattern("ts-decorator", `(\n[ \t]*\n)@\w`, 1),
		},
		grammar: sitter.NewLanguage(typescript.LanguageTypescript()),
		kinds:   tsKinds,
	}
	tsxLang := &Language{
		Name:                "tsx",
		Dialect:             DialectTypeScript,
		ThresholdMultiplier: 1.1,
		ExtraPatterns:       tsLang.ExtraPatterns,
		grammar:             sitter.NewLanguage(typescript.LanguageTSX()),
		kinds:               tsKinds,
	}
	jsLang := &Language{
		Name:                "javascript",
		Dialect:             DialectTypeScript,
		ThresholdMultiplier: 1.0,
		ExtraPatterns:       tsLang.ExtraPatterns,
		grammar:             sitter.NewLanguage(typescript.LanguageTypescript()),
		kinds:               tsKinds,
	}

	pythonLang := &Language{
		Name:                "python",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		ExtraPatterns: []BoundaryPattern{
			mustBoundaryPattern("py-top-level", `(\n[ \t]*\n)(?:async def |def |class |@)`, 1),
		},
		grammar: sitter.NewLanguage(tspython.Language()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"function_definition": KindFunction,
				"class_definition":    KindClass,
			},
			importKinds: map[string]bool{
				"import_statement":      true,
				"import_from_statement": true,
			},
			callKinds:         map[string]string{"call": "function"},
			underscorePrivate: true,
		},
	}

	rubyLang := &Language{
		Name:                "ruby",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		ExtraPatterns: []BoundaryPattern{
			mustBoundaryPattern("rb-end-blank", `(\bend[ \t]*\n)[ \t]*\n`, 1),
		},
		grammar: sitter.NewLanguage(tsruby.Language()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"method":           KindMethod,
				"singleton_method": KindMethod,
				"class":            KindClass,
				"module":           KindModule,
			},
			callKinds:         map[string]string{"call": "method"},
			importCalls:       map[string]bool{"require": true, "require_relative": true},
			underscorePrivate: true,
		},
	}

	rustLang := &Language{
		Name:                "rust",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		grammar:             sitter.NewLanguage(tsrust.Language()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"function_item": KindFunction,
				"struct_item":   KindStruct,
				"enum_item":     KindEnum,
				"trait_item":    KindTrait,
				"impl_item":     KindClass,
				"mod_item":      KindModule,
				"const_item":    KindConstant,
				"static_item":   KindVariable,
			},
			importKinds:    map[string]bool{"use_declaration": true},
			callKinds:      map[string]string{"call_expression": "function"},
			visibilityNode: "visibility_modifier",
		},
	}

	javaLang := &Language{
		Name:                "java",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		grammar:             sitter.NewLanguage(tsjava.Language()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"method_declaration":    KindMethod,
				"class_declaration":     KindClass,
				"interface_declaration": KindInterface,
				"enum_declaration":      KindEnum,
			},
			importKinds: map[string]bool{"import_declaration": true},
			callKinds:   map[string]string{"method_invocation": "name"},
		},
	}

	cLang := &Language{
		Name:                "c",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		grammar:             sitter.NewLanguage(tsc.Language()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"function_definition": KindFunction,
				"struct_specifier":    KindStruct,
				"enum_specifier":      KindEnum,
				"union_specifier":     KindStruct,
			},
			bodyRequired: map[string]bool{
				"struct_specifier": true,
				"enum_specifier":   true,
				"union_specifier":  true,
			},
			importKinds: map[string]bool{"preproc_include": true},
			callKinds:   map[string]string{"call_expression": "function"},
		},
	}

	phpLang := &Language{
		Name:                "php",
		Dialect:             DialectGeneric,
		ThresholdMultiplier: 1.0,
		grammar:             sitter.NewLanguage(tsphp.LanguagePHP()),
		generic: &genericTable{
			symbolKinds: map[string]string{
				"function_definition":   KindFunction,
				"method_declaration":    KindMethod,
				"class_declaration":     KindClass,
				"interface_declaration": KindInterface,
				"trait_declaration":     KindTrait,
			},
			importKinds: map[string]bool{
				"namespace_use_declaration": true,
				"require_expression":        true,
				"require_once_expression":   true,
				"include_expression":        true,
				"include_once_expression":   true,
			},
			callKinds: map[string]string{
				"function_call_expression": "function",
				"member_call_expression":   "name",
				"scoped_call_expression":   "name",
			},
			underscorePrivate: true,
		},
	}

	return &Registry{byExt: map[string]*Language{
		".ts":   tsLang,
		".mts":  tsLang,
		".cts":  tsLang,
		".tsx":  tsxLang,
		".jsx":  tsxLang,
		".js":   jsLang,
		".mjs":  jsLang,
		".cjs":  jsLang,
		".py":   pythonLang,
		".rb":   rubyLang,
		".rs":   rustLang,
		".java": javaLang,
		".c":    cLang,
		".h":    cLang,
		".php":  phpLang,
	}}
}

// ForPath returns the language registered for the path's extension.
func (r *Registry) ForPath(path string) (*Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := r.byExt[ext]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}
	return lang, nil
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
