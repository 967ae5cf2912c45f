package decoder

import (
	"sort"

	"github.com/tsawler/markpdf/model"
)

const (
	// lineTolerance is the baseline distance, as a fraction of span height,
	// within which spans belong to the same line.
	lineTolerance = 0.5

	// blockGapFactor is the vertical gap between lines, as a fraction of
	// line height, beyond which a new block starts. Ordinary leading leaves
	// a much smaller gap between line boxes than deliberate spacing does.
	blockGapFactor = 0.7
)

// buildBlocks groups positioned spans into lines, lines into blocks, and
// returns the blocks in reading order.
func buildBlocks(spans []spanBox) []model.Block {
	if len(spans) == 0 {
		return nil
	}

	lines := groupLines(spans)
	blocks := groupBlocks(lines)
	sortReadingOrder(blocks)
	return blocks
}

// groupLines clusters spans sharing a baseline into lines sorted left to right
func groupLines(spans []spanBox) []model.Line {
	sorted := make([]spanBox, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].rect.Bottom != sorted[j].rect.Bottom {
			return sorted[i].rect.Bottom < sorted[j].rect.Bottom
		}
		return sorted[i].rect.Left < sorted[j].rect.Left
	})

	var lines []model.Line
	var current []spanBox
	for _, sb := range sorted {
		if len(current) > 0 {
			last := current[len(current)-1]
			tol := maxFloat(last.rect.Height(), sb.rect.Height()) * lineTolerance
			if sb.rect.Bottom-last.rect.Bottom > tol {
				lines = append(lines, assembleLine(current))
				current = current[:0]
			}
		}
		current = append(current, sb)
	}
	if len(current) > 0 {
		lines = append(lines, assembleLine(current))
	}
	return lines
}

// assembleLine orders a baseline cluster left to right and unions its rects
func assembleLine(cluster []spanBox) model.Line {
	sort.SliceStable(cluster, func(i, j int) bool {
		return cluster[i].rect.Left < cluster[j].rect.Left
	})

	line := model.Line{Spans: make([]model.Span, 0, len(cluster))}
	for _, sb := range cluster {
		line.Spans = append(line.Spans, sb.span)
		line.Rect = line.Rect.Union(sb.rect)
	}
	return line
}

// groupBlocks merges vertically adjacent lines into blocks
func groupBlocks(lines []model.Line) []model.Block {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Rect.Top != lines[j].Rect.Top {
			return lines[i].Rect.Top < lines[j].Rect.Top
		}
		return lines[i].Rect.Left < lines[j].Rect.Left
	})

	var blocks []model.Block
	var current model.Block
	for _, line := range lines {
		if len(current.Lines) > 0 {
			prev := current.Lines[len(current.Lines)-1]
			gap := line.Rect.Top - prev.Rect.Bottom
			if gap > maxFloat(prev.Rect.Height(), 1)*blockGapFactor {
				blocks = append(blocks, current)
				current = model.Block{}
			}
		}
		current.Kind = model.BlockKindText
		current.Lines = append(current.Lines, line)
		current.Rect = current.Rect.Union(line.Rect)
	}
	if len(current.Lines) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// sortReadingOrder orders blocks top to bottom, breaking ties left to right
// for blocks whose top edges sit in the same vertical band.
func sortReadingOrder(blocks []model.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i].Rect, blocks[j].Rect
		band := minFloat(a.Height(), b.Height()) * 0.5
		if diff := a.Top - b.Top; diff > band || diff < -band {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
