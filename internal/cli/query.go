package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/dendrite/internal/config"
	"github.com/mvp-joe/dendrite/internal/graph"
	"github.com/mvp-joe/dendrite/internal/storage"
)

var (
	queryOpFlag         string
	queryTargetFlag     string
	queryDepthFlag      int
	queryMaxResultsFlag int
	queryJSONFlag       bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [dir]",
	Short: "Query call and containment relationships from the index",
	Long: `Query traverses the dependency graph built from the index and answers
relationship questions about a symbol.

Operations:
  callers       functions that call the target, directly or transitively
  callees       functions the target calls
  contains      members declared inside the target (class methods)
  contained-by  the container a member belongs to

Run "dendrite index" first to build the index.

Examples:
  # Who calls parseFile?
  dendrite query --op callers --target parseFile

  # What does main reach within three hops?
  dendrite query --op callees --target main --depth 3

  # Methods of the Cache class
  dendrite query --op contains --target Cache
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryOpFlag, "op", "", "Operation: callers, callees, contains or contained-by")
	queryCmd.Flags().StringVar(&queryTargetFlag, "target", "", "Symbol name to query")
	queryCmd.Flags().IntVar(&queryDepthFlag, "depth", graph.DefaultDepth, "Traversal depth")
	queryCmd.Flags().IntVar(&queryMaxResultsFlag, "max-results", graph.DefaultMaxResults, "Maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSONFlag, "json", false, "Print the full response as JSON")
	queryCmd.MarkFlagRequired("op")
	queryCmd.MarkFlagRequired("target")
}

func runQuery(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRootDir(args)
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

	searcher, err := graph.NewSearcher(storage.NewResultReader(store.DB()))
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	defer searcher.Close()

	resp, err := searcher.Query(context.Background(), &graph.QueryRequest{
		Operation:  graph.QueryOperation(queryOpFlag),
		Target:     queryTargetFlag,
		Depth:      queryDepthFlag,
		MaxResults: queryMaxResultsFlag,
	})
	if err != nil {
		return err
	}

	if queryJSONFlag {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printQueryResponse(resp)
	return nil
}

func printQueryResponse(resp *graph.QueryResponse) {
	if len(resp.Results) == 0 {
		fmt.Printf("No results for %s of %s\n", resp.Operation, resp.Target)
		return
	}

	fmt.Printf("%s of %s (%d found):\n", resp.Operation, resp.Target, resp.TotalFound)
	for _, r := range resp.Results {
		location := r.Node.File
		if location == "" {
			location = "external"
		} else {
			location = fmt.Sprintf("%s:%d", r.Node.File, r.Node.StartLine)
		}
		fmt.Printf("  [depth %d] %-30s %-10s %s\n", r.Depth, r.Node.Name, r.Node.Kind, location)
	}
	if resp.Truncated {
		fmt.Printf("  ... truncated, %d more (raise --max-results to see them)\n",
			resp.TotalFound-resp.TotalReturned)
	}
}
