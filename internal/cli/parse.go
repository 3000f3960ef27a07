package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/dendrite/internal/config"
	"github.com/mvp-joe/dendrite/internal/parser"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a single file and print the merged result as JSON",
	Long: `Parse runs the chunked parsing engine on one file and prints the merged
result (symbols, dependencies, imports, exports, parse errors) as JSON.

Files above the size threshold are split at safe boundaries, parsed in
parallel and merged, exactly as during indexing. Engine options come
from .dendrite/config.yml in the working directory when present.

Examples:
  # Parse one file
  dendrite parse src/app.ts

  # Inspect how a large file was chunked
  dendrite parse vendor/bundle.js | jq .chunk_count
`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfigFromDir(workDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	engine := parser.NewEngine(cfg.EngineOptions())
	result, err := engine.ParseFile(context.Background(), filepath.ToSlash(filePath), source)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
