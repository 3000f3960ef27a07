package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Classifier:
// - Path rules win over naming-convention rules
// - Directory globs match with and without a leading ./
// - Base-class rules classify component subclasses
// - Framework hints gate rules and drive the composable demotion
// - First matching rule wins in a custom table
// - HintForPath derives hints from extensions

func TestClassifier_PathRules(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()

	tests := []struct {
		name     string
		kind     string
		symbol   string
		path     string
		expected string
	}{
		{"components dir", KindFunction, "Button", "src/components/Button.tsx", EntityComponent},
		{"components dir relative", KindFunction, "Button", "components/nested/Button.tsx", EntityComponent},
		{"lowercase in components", KindFunction, "helpers", "src/components/util.ts", ""},
		{"composables dir", KindFunction, "useFetch", "app/composables/useFetch.ts", EntityComposable},
		{"stores dir", KindConstant, "cart", "src/stores/cart.ts", EntityStore},
		{"store singular dir", KindFunction, "session", "src/store/session.ts", EntityStore},
		{"plain dir", KindFunction, "format", "src/lib/format.ts", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tt.kind, tt.symbol, nil, tt.path, "", true)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifier_NamingRules(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()

	// Test: store naming beats composable naming by table order
	assert.Equal(t, EntityStore, c.Classify(KindFunction, "useCartStore", nil, "src/lib/cart.ts", "", true))
	assert.Equal(t, EntityComposable, c.Classify(KindFunction, "useFetch", nil, "src/lib/fetch.ts", "", true))

	// Test: naming rules require the function kind
	assert.Empty(t, c.Classify(KindClass, "useFetch", nil, "src/lib/fetch.ts", "", true))
}

func TestClassifier_BaseClassRule(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()

	got := c.Classify(KindClass, "Dashboard", []string{"React.Component"}, "src/views/dash.ts", "", true)
	assert.Equal(t, EntityComponent, got)

	got = c.Classify(KindClass, "Dashboard", []string{"PureComponent"}, "src/views/dash.ts", "", true)
	assert.Equal(t, EntityComponent, got)

	assert.Empty(t, c.Classify(KindClass, "Dashboard", []string{"BaseService"}, "src/views/dash.ts", "", true))
}

func TestClassifier_HintGatedRules(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()

	// Test: capitalized functions are components only under react
	assert.Equal(t, EntityComponent, c.Classify(KindFunction, "Sidebar", nil, "src/views/side.tsx", "react", true))
	assert.Empty(t, c.Classify(KindFunction, "Sidebar", nil, "src/views/side.ts", "", true))
}

func TestClassifier_ComposableDemotion(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()

	// Test: unexported composables are demoted under a reactive hint
	assert.Empty(t, c.Classify(KindFunction, "useFetch", nil, "src/lib/fetch.ts", "react", false))

	// Exported, or outside a reactive framework, the rule stands.
	assert.Equal(t, EntityComposable, c.Classify(KindFunction, "useFetch", nil, "src/lib/fetch.ts", "react", true))
	assert.Equal(t, EntityComposable, c.Classify(KindFunction, "useFetch", nil, "src/lib/fetch.ts", "", false))
}

func TestClassifier_CustomRules(t *testing.T) {
	t.Parallel()

	rules := []ClassifierRule{
		{
			Name:        "jobs",
			EntityType:  "job",
			NamePattern: regexp.MustCompile(`Job$`),
		},
		{
			Name:        "everything",
			EntityType:  "fallback",
			NamePattern: regexp.MustCompile(`.`),
		},
	}
	c := NewClassifier(rules)

	// Test: first match wins, later rules never run
	assert.Equal(t, "job", c.Classify(KindClass, "SyncJob", nil, "x.ts", "", true))
	assert.Equal(t, "fallback", c.Classify(KindClass, "Other", nil, "x.ts", "", true))
}

func TestClassifier_HintForPath(t *testing.T) {
	t.Parallel()

	c := NewDefaultClassifier()
	assert.Equal(t, "react", c.HintForPath("src/views/App.tsx"))
	assert.Equal(t, "react", c.HintForPath("src/views/App.JSX"))
	assert.Equal(t, "vue", c.HintForPath("src/views/App.vue"))
	assert.Empty(t, c.HintForPath("src/views/app.ts"))
}
