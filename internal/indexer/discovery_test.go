package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Include patterns select files, ignore patterns exclude them
// - Root-level files match "**/"-prefixed patterns
// - The .dendrite directory is always excluded
// - Invalid patterns are rejected at construction

// writeProjectFile creates a file under root, creating parent
// directories as needed, and returns its absolute path.
func writeProjectFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileDiscovery_PatternsAndIgnores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	appTS := writeProjectFile(t, root, "src/app.ts", "export const a = 1;\n")
	utilPY := writeProjectFile(t, root, "src/util.py", "x = 1\n")
	mainTS := writeProjectFile(t, root, "main.ts", "export const m = 1;\n")
	writeProjectFile(t, root, "README.md", "# docs\n")
	writeProjectFile(t, root, "node_modules/pkg/index.ts", "export const n = 1;\n")
	writeProjectFile(t, root, "dist/bundle.js", "var b;\n")
	writeProjectFile(t, root, ".dendrite/stale.ts", "export const s = 1;\n")

	discovery, err := NewFileDiscovery(root,
		[]string{"**/*.ts", "**/*.py", "**/*.js"},
		[]string{"node_modules/**", "dist/**"},
	)
	require.NoError(t, err)

	files, err := discovery.DiscoverFiles()
	require.NoError(t, err)

	// Test: main.ts sits at the root and matches via the "**/" strip;
	// .dendrite/stale.ts matches *.ts but is always excluded
	assert.ElementsMatch(t, []string{appTS, utilPY, mainTS}, files)
}

func TestFileDiscovery_EmptyPatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProjectFile(t, root, "src/app.ts", "export const a = 1;\n")

	discovery, err := NewFileDiscovery(root, nil, nil)
	require.NoError(t, err)

	files, err := discovery.DiscoverFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileDiscovery_InvalidPatterns(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")

	_, err = NewFileDiscovery(t.TempDir(), nil, []string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}
