package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/dendrite/internal/config"
	"github.com/mvp-joe/dendrite/internal/indexer"
)

var (
	quietFlag   bool
	workersFlag int
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Parse the codebase and build the symbol index",
	Long: `Index discovers source files under the project root, parses them with
the chunked tree-sitter engine and stores the merged results in
.dendrite/index.db.

The indexer:
  - Walks the tree honoring include and ignore patterns
  - Parses source files (TypeScript, JavaScript, Python, Ruby, Rust, Java, C, PHP)
  - Extracts symbols, dependencies, imports and exports
  - Splits oversized files into chunks and merges the partial results
  - Prunes index rows for files that no longer exist

Examples:
  # Index the current directory
  dendrite index

  # Index a specific directory
  dendrite index /path/to/project

  # Index with progress bars disabled
  dendrite index --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	indexCmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of parallel parse workers (default: one per CPU)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling indexing...")
		cancel()
	}()

	rootDir, err := resolveRootDir(args)
	if err != nil {
		return err
	}

	// Load configuration from .dendrite/config.yml
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	indexerConfig := cfg.ToIndexerConfig(rootDir)
	if workersFlag > 0 {
		indexerConfig.Workers = workersFlag
	}

	idx, err := indexer.New(indexerConfig, NewCLIProgressReporter(quietFlag))
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer idx.Close()

	stats, err := idx.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	// OnComplete already printed the summary unless --quiet suppressed it.
	if quietFlag {
		fmt.Printf("Indexed %d files in %.1fs\n",
			stats.FilesIndexed, stats.ProcessingTime.Seconds())
	}

	return nil
}

// resolveRootDir turns the optional positional argument into an absolute
// project root, defaulting to the working directory.
func resolveRootDir(args []string) (string, error) {
	if len(args) == 0 {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return dir, nil
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}
