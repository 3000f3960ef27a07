package parser

import (
	"fmt"
	"regexp"
	"sort"
)

const (
	// safeZoneRatio bounds the searched region to the leading 85% of
	// the maximum chunk size, leaving a guard band before the hard
	// limit.
	safeZoneRatio = 0.85

	// minBoundaryGap is the smallest distance, in bytes, between two
	// kept split offsets. Candidates closer to the previously kept
	// offset are discarded to prevent pathologically small chunks.
	minBoundaryGap = 1000

	// minBoundaryPosition discards offsets too close to the start of
	// the input, which would produce a degenerate leading chunk.
	minBoundaryPosition = 100
)

// BoundaryPattern is one structural pattern contributing candidate
// split offsets. The split lands immediately after the submatch
// selected by SplitGroup (0 selects the whole match), so constructs
// matched after that group stay with the following chunk.
type BoundaryPattern struct {
	Name       string
	Expr       *regexp.Regexp
	SplitGroup int
}

// CompileBoundaryPattern compiles expr into a BoundaryPattern.
func CompileBoundaryPattern(name, expr string, splitGroup int) (BoundaryPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return BoundaryPattern{}, fmt.Errorf("boundary pattern %s: %w", name, err)
	}
	if splitGroup < 0 || splitGroup > re.NumSubexp() {
		return BoundaryPattern{}, fmt.Errorf("boundary pattern %s: split group %d out of range", name, splitGroup)
	}
	return BoundaryPattern{Name: name, Expr: re, SplitGroup: splitGroup}, nil
}

func mustBoundaryPattern(name, expr string, splitGroup int) BoundaryPattern {
	p, err := CompileBoundaryPattern(name, expr, splitGroup)
	if err != nil {
		panic(err)
	}
	return p
}

// genericBoundaryPatterns returns the built-in pattern library, ordered
// by priority. Patterns match points where a top-level construct has
// clearly ended: a closing brace or statement terminator followed by a
// blank line or a comment.
func genericBoundaryPatterns() []BoundaryPattern {
	return []BoundaryPattern{
		mustBoundaryPattern("top-level-close", `(?m)^\}[;,]?[ \t]*\n`, 0),
		mustBoundaryPattern("brace-blank-line", `\}[;,]?[ \t]*\n[ \t]*\n`, 0),
		mustBoundaryPattern("brace-comment", `(\}[;,]?[ \t]*\n)[ \t]*(?://|/\*)`, 1),
		mustBoundaryPattern("terminator-blank-line", `;[ \t]*\n[ \t]*\n`, 0),
	}
}

// BoundaryDetector finds safe split offsets in oversized source text.
// The pattern library is fixed at construction and never mutated, so a
// detector is safe to share across goroutines.
type BoundaryDetector struct {
	patterns []BoundaryPattern
}

// NewBoundaryDetector returns a detector over the built-in library
// plus any extra patterns, which take lower priority.
func NewBoundaryDetector(extra ...BoundaryPattern) *BoundaryDetector {
	return &BoundaryDetector{patterns: append(genericBoundaryPatterns(), extra...)}
}

// Detect searches the safe zone of text (the leading 85% of
// maxChunkSize) and returns candidate split offsets sorted descending.
// extra patterns are unioned with the detector's library for this call.
// Every returned offset is after a structural pattern match, below the
// input length, at least minBoundaryPosition from the start, and more
// than minBoundaryGap from the next kept offset.
func (d *BoundaryDetector) Detect(text []byte, maxChunkSize int, extra []BoundaryPattern) []int {
	if maxChunkSize <= 0 || len(text) == 0 {
		return nil
	}

	window := int(float64(maxChunkSize) * safeZoneRatio)
	if window > len(text) {
		window = len(text)
	}
	zone := text[:window]

	seen := make(map[int]bool)
	var offsets []int
	collect := func(p BoundaryPattern) {
		for _, m := range p.Expr.FindAllSubmatchIndex(zone, -1) {
			end := m[2*p.SplitGroup+1]
			if end < 0 || end >= len(text) {
				continue
			}
			if !seen[end] {
				seen[end] = true
				offsets = append(offsets, end)
			}
		}
	}
	for _, p := range d.patterns {
		collect(p)
	}
	for _, p := range extra {
		collect(p)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))

	// Greedy thinning: keep an offset only when it is far enough from
	// the previously kept one, starting at the largest.
	kept := offsets[:0]
	last := -1
	for _, off := range offsets {
		if off < minBoundaryPosition {
			continue
		}
		if last >= 0 && last-off <= minBoundaryGap {
			continue
		}
		kept = append(kept, off)
		last = off
	}
	return kept
}
