package indexer

// ProgressReporter provides callbacks for reporting indexing progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(totalFiles int)

	// OnParsingStart is called before parsing begins.
	OnParsingStart(totalFiles int)

	// OnFileParsed is called after each file is processed. Files parse
	// concurrently, so implementations must tolerate concurrent calls.
	OnFileParsed(fileName string)

	// OnComplete is called when indexing completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                  {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnParsingStart(totalFiles int)      {}
func (n *NoOpProgressReporter) OnFileParsed(fileName string)       {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)            {}
