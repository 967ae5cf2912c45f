package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/markpdf/model"
)

// ProfilerConfig holds configuration for page style profiling
type ProfilerConfig struct {
	// SizeTolerance is how many points above the body size a distinct size
	// must be before it is considered a heading candidate. Absorbs rounding
	// noise between nominally equal sizes.
	// Default: 1
	SizeTolerance int

	// MaxHeadingLevels is the number of heading levels assigned, largest
	// size first. Distinct sizes beyond this remain body-equivalent text.
	// Default: 3
	MaxHeadingLevels int

	// FallbackBodySize is used when a page carries spans but no usable
	// size statistics.
	// Default: 10
	FallbackBodySize int
}

// DefaultProfilerConfig returns sensible default configuration
func DefaultProfilerConfig() ProfilerConfig {
	return ProfilerConfig{
		SizeTolerance:    1,
		MaxHeadingLevels: 3,
		FallbackBodySize: 10,
	}
}

// StyleProfile is the per-page result of style profiling: the font size
// judged to represent ordinary paragraph text, and the heading level
// assigned to each larger size. Profiles are derived per page and never
// persisted across pages.
type StyleProfile struct {
	// BodySize is the dominant body font size, rounded to an integer
	BodySize int

	// HeadingLevels maps rounded font size to heading level (1-3).
	// Sizes not present are not headings.
	HeadingLevels map[int]int
}

// HeadingLevel returns the heading level for a rounded font size,
// and whether that size is a heading size at all
func (p *StyleProfile) HeadingLevel(size int) (int, bool) {
	if p == nil {
		return 0, false
	}
	level, ok := p.HeadingLevels[size]
	return level, ok
}

// Profiler estimates body text size and heading levels for a page
type Profiler struct {
	config ProfilerConfig
}

// NewProfiler creates a profiler with default configuration
func NewProfiler() *Profiler {
	return &Profiler{config: DefaultProfilerConfig()}
}

// NewProfilerWithConfig creates a profiler with custom configuration
func NewProfilerWithConfig(config ProfilerConfig) *Profiler {
	return &Profiler{config: config}
}

// Profile analyzes one page's text blocks and returns its style profile.
// It returns nil when the page has no text blocks or no spans, signaling
// that the page should be skipped.
//
// The body size is the rounded span size with the highest accumulated
// character weight, where each span contributes the rune count of its
// whitespace-stripped text. Weighting by characters rather than span count
// keeps short large titles from outvoting the running text.
func (pr *Profiler) Profile(blocks []model.Block) *StyleProfile {
	charWeight := make(map[int]int)
	var allSizes []int

	for _, b := range blocks {
		if !b.IsText() {
			continue
		}
		for _, line := range b.Lines {
			for _, span := range line.Spans {
				if span.Size <= 0 {
					// Malformed span: no usable size statistics.
					continue
				}
				size := roundSize(span.Size)
				allSizes = append(allSizes, size)
				charWeight[size] += utf8.RuneCountInString(strings.TrimSpace(span.Text))
			}
		}
	}

	if len(allSizes) == 0 {
		return nil
	}

	bodySize, ok := dominantSize(charWeight)
	if !ok {
		bodySize = modeSize(allSizes, pr.config.FallbackBodySize)
	}

	return &StyleProfile{
		BodySize:      bodySize,
		HeadingLevels: pr.headingLevels(allSizes, bodySize),
	}
}

// headingLevels assigns levels 1..MaxHeadingLevels to the distinct sizes
// strictly greater than bodySize + SizeTolerance, largest first. Ties on
// rounded size collapse into a single level.
func (pr *Profiler) headingLevels(sizes []int, bodySize int) map[int]int {
	seen := make(map[int]bool)
	var candidates []int
	for _, s := range sizes {
		if s > bodySize+pr.config.SizeTolerance && !seen[s] {
			seen[s] = true
			candidates = append(candidates, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(candidates)))

	levels := make(map[int]int)
	for i, s := range candidates {
		if i >= pr.config.MaxHeadingLevels {
			break
		}
		levels[s] = i + 1
	}
	return levels
}

// dominantSize returns the size with the highest positive character weight.
// A table with no characters at all reports no dominant size, so the caller
// falls back to the unweighted mode. Ties resolve to the smaller size for
// determinism.
func dominantSize(weights map[int]int) (int, bool) {
	best, bestWeight := 0, 0
	for size, w := range weights {
		if w > bestWeight || (w == bestWeight && w > 0 && size < best) {
			best, bestWeight = size, w
		}
	}
	return best, bestWeight > 0
}

// modeSize returns the statistical mode of sizes, or fallback when empty.
// Ties resolve to the smaller size.
func modeSize(sizes []int, fallback int) int {
	if len(sizes) == 0 {
		return fallback
	}
	counts := make(map[int]int)
	for _, s := range sizes {
		counts[s]++
	}
	best, bestCount := 0, -1
	for size, c := range counts {
		if c > bestCount || (c == bestCount && size < best) {
			best, bestCount = size, c
		}
	}
	return best
}

// roundSize rounds a font size to the nearest integer
func roundSize(size float64) int {
	return int(math.Round(size))
}
