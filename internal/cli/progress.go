package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/dendrite/internal/indexer"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d files to parse\n", totalFiles)
	fmt.Println()
}

func (c *CLIProgressReporter) OnParsingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Parsing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// OnFileParsed runs on the indexer's worker goroutines; the progress
// bar serializes concurrent Add calls itself.
func (c *CLIProgressReporter) OnFileParsed(fileName string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *indexer.Stats) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Indexing complete: %s files in %.1fs\n",
		formatNumber(stats.FilesIndexed), stats.ProcessingTime.Seconds())
	fmt.Printf("  Symbols:      %s\n", formatNumber(stats.Symbols))
	fmt.Printf("  Dependencies: %s\n", formatNumber(stats.Dependencies))
	if stats.CacheHits > 0 {
		fmt.Printf("  Cache hits:   %s\n", formatNumber(stats.CacheHits))
	}
	if stats.FilesFailed > 0 {
		fmt.Printf("  Failed:       %s\n", formatNumber(stats.FilesFailed))
	}
	if stats.FilesPruned > 0 {
		fmt.Printf("  Pruned:       %s\n", formatNumber(stats.FilesPruned))
	}
	if stats.ParseErrors > 0 {
		fmt.Printf("  Parse errors: %s\n", formatNumber(stats.ParseErrors))
	}
}

// formatNumber formats large numbers with thousand separators (1234 -> "1,234")
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
