package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/dendrite/internal/config"
	"github.com/mvp-joe/dendrite/internal/search"
	"github.com/mvp-joe/dendrite/internal/storage"
)

var (
	searchModeFlag     string
	searchKindFlag     string
	searchEntityFlag   string
	searchPathFlag     string
	searchExportedFlag bool
	searchLimitFlag    int
	searchJSONFlag     bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed symbols by name",
	Long: `Search matches the query against symbol names and qualified names in the
index of the current directory.

Modes:
  keyword  whole-word match on name and qualified name (default)
  prefix   symbols whose name starts with the query
  fuzzy    tolerates one typo in the query

Run "dendrite index" first to build the index.

Examples:
  # Find symbols named parseFile
  dendrite search parseFile

  # All symbols starting with "use"
  dendrite search use --mode prefix

  # Exported classes under src/components
  dendrite search Button --kind class --path "components*" --exported
`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchModeFlag, "mode", string(search.ModeKeyword), "Match mode: keyword, prefix or fuzzy")
	searchCmd.Flags().StringVar(&searchKindFlag, "kind", "", "Filter by symbol kind (function, class, method, ...)")
	searchCmd.Flags().StringVar(&searchEntityFlag, "entity", "", "Filter by entity type (component, store, ...)")
	searchCmd.Flags().StringVar(&searchPathFlag, "path", "", "Filter by file path wildcard pattern")
	searchCmd.Flags().BoolVar(&searchExportedFlag, "exported", false, "Only exported symbols")
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", search.DefaultLimit, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSONFlag, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRootDir(nil)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.OpenReadOnly(cfg.DatabasePath(rootDir))
	if err != nil {
		return fmt.Errorf("failed to open index (run \"dendrite index\" first): %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	searcher, err := search.NewSearcher(ctx, storage.NewResultReader(store.DB()))
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	defer searcher.Close()

	results, err := searcher.Search(ctx, args[0], &search.Options{
		Mode:         search.Mode(searchModeFlag),
		Kind:         searchKindFlag,
		EntityType:   searchEntityFlag,
		FilePath:     searchPathFlag,
		ExportedOnly: searchExportedFlag,
		Limit:        searchLimitFlag,
	})
	if err != nil {
		return err
	}

	if searchJSONFlag {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No symbols matching %q\n", args[0])
		return nil
	}

	for _, r := range results {
		name := r.Name
		if r.QualifiedName != "" && r.QualifiedName != r.Name {
			name = r.QualifiedName
		}
		entity := ""
		if r.EntityType != "" {
			entity = fmt.Sprintf("  (%s)", r.EntityType)
		}
		fmt.Printf("%-36s %-10s %s:%d%s\n", name, r.Kind, r.FilePath, r.StartLine, entity)
	}
	return nil
}
