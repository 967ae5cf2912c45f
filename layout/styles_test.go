package layout

import (
	"strings"
	"testing"

	"github.com/tsawler/markpdf/model"
)

// textBlock builds a single-line text block from spans
func textBlock(rect model.Rect, spans ...model.Span) model.Block {
	return model.Block{
		Kind:  model.BlockKindText,
		Lines: []model.Line{{Spans: spans, Rect: rect}},
		Rect:  rect,
	}
}

func span(text string, size float64) model.Span {
	return model.Span{Text: text, Size: size}
}

func TestDefaultProfilerConfig(t *testing.T) {
	config := DefaultProfilerConfig()

	if config.SizeTolerance != 1 {
		t.Errorf("Expected SizeTolerance=1, got %d", config.SizeTolerance)
	}
	if config.MaxHeadingLevels != 3 {
		t.Errorf("Expected MaxHeadingLevels=3, got %d", config.MaxHeadingLevels)
	}
	if config.FallbackBodySize != 10 {
		t.Errorf("Expected FallbackBodySize=10, got %d", config.FallbackBodySize)
	}
}

func TestNewProfilerWithConfig(t *testing.T) {
	config := ProfilerConfig{SizeTolerance: 2, MaxHeadingLevels: 2, FallbackBodySize: 12}
	profiler := NewProfilerWithConfig(config)
	if profiler == nil {
		t.Fatal("NewProfilerWithConfig returned nil")
	}
	if profiler.config.SizeTolerance != 2 {
		t.Errorf("Expected SizeTolerance=2, got %d", profiler.config.SizeTolerance)
	}
}

func TestProfileEmptyPage(t *testing.T) {
	profiler := NewProfiler()

	if got := profiler.Profile(nil); got != nil {
		t.Errorf("Profile(nil) = %+v, want nil", got)
	}

	imageOnly := []model.Block{{Kind: model.BlockKindImage}}
	if got := profiler.Profile(imageOnly); got != nil {
		t.Errorf("Profile(image-only) = %+v, want nil", got)
	}

	noSpans := []model.Block{{Kind: model.BlockKindText, Lines: []model.Line{{}}}}
	if got := profiler.Profile(noSpans); got != nil {
		t.Errorf("Profile(no spans) = %+v, want nil", got)
	}
}

func TestProfileSingleSize(t *testing.T) {
	blocks := []model.Block{
		textBlock(model.Rect{}, span("Ordinary paragraph text here.", 11)),
		textBlock(model.Rect{}, span("More of the same size.", 11)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if profile.BodySize != 11 {
		t.Errorf("BodySize = %d, want 11", profile.BodySize)
	}
	if len(profile.HeadingLevels) != 0 {
		t.Errorf("HeadingLevels = %v, want empty", profile.HeadingLevels)
	}
}

func TestProfileCharWeightedBodySize(t *testing.T) {
	// Sizes {10,10,10,18,24} where the size-10 text carries the most
	// characters: body is 10 and the larger sizes become headings,
	// largest first.
	blocks := []model.Block{
		textBlock(model.Rect{}, span("Big Title", 24)),
		textBlock(model.Rect{}, span("Subtitle", 18)),
		textBlock(model.Rect{},
			span("This is a long run of ordinary body text, ", 10),
			span("and it continues with plenty more characters, ", 10),
			span("easily outweighing the short headings above.", 10)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if profile.BodySize != 10 {
		t.Errorf("BodySize = %d, want 10", profile.BodySize)
	}
	if lvl := profile.HeadingLevels[24]; lvl != 1 {
		t.Errorf("HeadingLevels[24] = %d, want 1", lvl)
	}
	if lvl := profile.HeadingLevels[18]; lvl != 2 {
		t.Errorf("HeadingLevels[18] = %d, want 2", lvl)
	}
	if len(profile.HeadingLevels) != 2 {
		t.Errorf("HeadingLevels = %v, want exactly two entries", profile.HeadingLevels)
	}
}

func TestProfileNeverExceedsThreeLevels(t *testing.T) {
	blocks := []model.Block{
		textBlock(model.Rect{}, span(strings.Repeat("body text ", 20), 10)),
		textBlock(model.Rect{}, span("a", 30)),
		textBlock(model.Rect{}, span("b", 26)),
		textBlock(model.Rect{}, span("c", 22)),
		textBlock(model.Rect{}, span("d", 18)),
		textBlock(model.Rect{}, span("e", 14)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if len(profile.HeadingLevels) != 3 {
		t.Fatalf("got %d heading levels, want 3: %v", len(profile.HeadingLevels), profile.HeadingLevels)
	}
	for size, level := range profile.HeadingLevels {
		if level < 1 || level > 3 {
			t.Errorf("size %d assigned level %d, want 1..3", size, level)
		}
	}
	// The three largest distinct sizes get the levels; 18 and 14 stay body-equivalent.
	want := map[int]int{30: 1, 26: 2, 22: 3}
	for size, level := range want {
		if got := profile.HeadingLevels[size]; got != level {
			t.Errorf("HeadingLevels[%d] = %d, want %d", size, got, level)
		}
	}
	if _, ok := profile.HeadingLevels[18]; ok {
		t.Error("size 18 should not be a heading (beyond third largest)")
	}
}

func TestProfileToleranceAbsorbsRoundingNoise(t *testing.T) {
	// Size 11 is within body+1 of body size 10 and must not become a heading.
	blocks := []model.Block{
		textBlock(model.Rect{}, span(strings.Repeat("x", 50), 10)),
		textBlock(model.Rect{}, span("near-body", 11)),
		textBlock(model.Rect{}, span("heading", 14)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if _, ok := profile.HeadingLevels[11]; ok {
		t.Error("size 11 within tolerance of body 10 should not be a heading")
	}
	if lvl := profile.HeadingLevels[14]; lvl != 1 {
		t.Errorf("HeadingLevels[14] = %d, want 1", lvl)
	}
}

func TestProfileTieCollapsesToOneLevel(t *testing.T) {
	// Multiple spans sharing one rounded size collapse into a single level.
	blocks := []model.Block{
		textBlock(model.Rect{}, span(strings.Repeat("x", 50), 10)),
		textBlock(model.Rect{}, span("First", 18)),
		textBlock(model.Rect{}, span("Second", 18)),
		textBlock(model.Rect{}, span("Third", 17.8)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if len(profile.HeadingLevels) != 1 {
		t.Fatalf("HeadingLevels = %v, want one entry", profile.HeadingLevels)
	}
	if lvl := profile.HeadingLevels[18]; lvl != 1 {
		t.Errorf("HeadingLevels[18] = %d, want 1", lvl)
	}
}

func TestProfileWhitespaceOnlyFallsBackToMode(t *testing.T) {
	// Spans exist but none carries non-whitespace characters, so the weighted
	// table is empty and the unweighted mode decides.
	blocks := []model.Block{
		textBlock(model.Rect{}, span("   ", 12), span(" ", 12), span("\t", 9)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if profile.BodySize != 12 {
		t.Errorf("BodySize = %d, want mode 12", profile.BodySize)
	}
}

func TestProfileRoundsSizes(t *testing.T) {
	blocks := []model.Block{
		textBlock(model.Rect{}, span(strings.Repeat("x", 30), 10.3)),
		textBlock(model.Rect{}, span("Title", 23.6)),
	}

	profile := NewProfiler().Profile(blocks)
	if profile == nil {
		t.Fatal("expected non-nil profile")
	}
	if profile.BodySize != 10 {
		t.Errorf("BodySize = %d, want 10", profile.BodySize)
	}
	if lvl := profile.HeadingLevels[24]; lvl != 1 {
		t.Errorf("HeadingLevels[24] = %d, want 1", lvl)
	}
}

func TestHeadingLevelNilProfile(t *testing.T) {
	var profile *StyleProfile
	if _, ok := profile.HeadingLevel(24); ok {
		t.Error("nil profile should report no heading levels")
	}
}
