package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/markpdf/markdown"
	"github.com/tsawler/markpdf/model"
)

// AssemblerConfig holds configuration for block classification and assembly
type AssemblerConfig struct {
	// GapFactor is the fraction of the body font size that a vertical gap
	// between blocks must exceed to count as a paragraph break. The body
	// size approximates the dominant line height, so values below 1.0
	// separate deliberate spacing from ordinary line leading.
	// Default: 0.7
	GapFactor float64
}

// DefaultAssemblerConfig returns sensible default configuration
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		GapFactor: 0.7,
	}
}

// State is the running context threaded across blocks and pages. It is
// mutated sequentially as blocks are processed; callers must not share one
// State between concurrently processed pages.
type State struct {
	// LastBottom is the bottom edge of the most recently processed text
	// block, used for vertical-gap paragraph-break detection. It carries
	// across page boundaries.
	LastBottom float64

	// paragraph accumulates the currently open paragraph text. At most one
	// paragraph is open at any time; headings, list items, paragraph breaks,
	// and page ends force a flush.
	paragraph strings.Builder

	// started is set once the first text block of the document has been
	// classified; gap detection is skipped for that first block.
	started bool

	// lastBlank tracks whether the most recently emitted fragment was a
	// blank paragraph-break marker, so breaks are never doubled.
	lastBlank bool
}

// OpenParagraph returns the currently accumulating paragraph text.
// Useful for tests and diagnostics; normal flow flushes it internally.
func (st *State) OpenParagraph() string {
	return st.paragraph.String()
}

// Assembler classifies text blocks and assembles Markdown fragments
type Assembler struct {
	config AssemblerConfig
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{config: DefaultAssemblerConfig()}
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config AssemblerConfig) *Assembler {
	return &Assembler{config: config}
}

// Page walks one page's blocks in reading order and returns the page's
// Markdown fragments, updating st as it goes. Any paragraph still open when
// the page ends is flushed, so paragraph text never merges across pages;
// st.LastBottom does carry into the next page.
//
// Callers emit the page marker fragment themselves before calling Page, and
// must call Page for pages in document order.
func (a *Assembler) Page(blocks []model.Block, profile *StyleProfile, st *State) []string {
	var out []string

	// The fragment preceding this page's content is its page marker,
	// never a blank.
	st.lastBlank = false

	for _, b := range blocks {
		if !b.IsText() {
			// Non-text blocks are skipped entirely and do not disturb
			// position tracking or the open paragraph.
			continue
		}

		avgSize := blockAverageSize(b, profile.BodySize)

		// Paragraph-break detection on vertical whitespace. The very first
		// text block of the document has no predecessor to measure against.
		if st.started {
			gap := b.Rect.Top - st.LastBottom
			if gap > float64(profile.BodySize)*a.config.GapFactor {
				out = a.flush(out, st)
				// Never double a break: flushing clears lastBlank, so it
				// is still set only when nothing was emitted since the
				// previous break.
				if !st.lastBlank {
					out = append(out, markdown.Blank)
					st.lastBlank = true
				}
			}
		}
		st.started = true

		if level, ok := profile.HeadingLevel(avgSize); ok {
			heading := strings.TrimSpace(b.Text())
			if heading != "" {
				out = a.flush(out, st)
				out = append(out, markdown.Heading(level, heading))
				st.lastBlank = false
				st.LastBottom = b.Rect.Bottom
				continue
			}
			// A size match with empty text is never a heading; fall
			// through to list/paragraph handling.
		}

		for _, line := range b.Lines {
			raw := line.Text()
			formatted := renderInline(line.Spans)

			switch {
			case IsListItemText(raw):
				// Each list line becomes its own fragment, not merged
				// with siblings.
				out = a.flush(out, st)
				out = append(out, strings.TrimSpace(formatted)+"\n")
				st.lastBlank = false
			case strings.TrimSpace(raw) != "":
				// Consecutive wrapped lines of one paragraph merge into a
				// single run of text. Lines that were visually distinct
				// paragraphs but lack sufficient vertical gap merge too;
				// the inputs carry no stronger signal to split them on.
				if st.paragraph.Len() > 0 && !strings.HasSuffix(st.paragraph.String(), "\n") {
					st.paragraph.WriteByte(' ')
				}
				st.paragraph.WriteString(strings.TrimSpace(formatted))
			}
		}

		st.LastBottom = b.Rect.Bottom
	}

	return a.flush(out, st)
}

// flush emits any open paragraph as a fragment and clears the accumulator
func (a *Assembler) flush(out []string, st *State) []string {
	if st.paragraph.Len() == 0 {
		return out
	}
	out = append(out, strings.TrimSpace(st.paragraph.String())+"\n")
	st.paragraph.Reset()
	st.lastBlank = false
	return out
}

// blockAverageSize computes the character-weighted average font size of a
// block, rounded to an integer: the sum of span size times stripped text
// length over the total stripped length. Blocks with no characters default
// to the body size. The per-block average (rather than per-span sizes) is
// the unit of heading classification, so mixed-size blocks rarely qualify.
func blockAverageSize(b model.Block, bodySize int) int {
	total := 0
	chars := 0
	for _, line := range b.Lines {
		for _, span := range line.Spans {
			n := utf8.RuneCountInString(strings.TrimSpace(span.Text))
			size := roundSize(span.Size)
			if span.Size <= 0 {
				// Malformed span: substitute the page body size.
				size = bodySize
			}
			total += size * n
			chars += n
		}
	}
	if chars == 0 {
		return bodySize
	}
	return int(math.Round(float64(total) / float64(chars)))
}

// renderInline reassembles a line's visible text, wrapping bold spans in
// emphasis markers. Adjacent bold spans do not double-wrap: when the text
// emitted so far already ends with a marker close and the incoming span
// does not open one itself, the span is appended bare.
func renderInline(spans []model.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Bold() &&
			!strings.HasSuffix(sb.String(), markdown.BoldMarker) &&
			!strings.HasPrefix(span.Text, markdown.BoldMarker) {
			sb.WriteString(markdown.BoldMarker)
			sb.WriteString(span.Text)
			sb.WriteString(markdown.BoldMarker)
		} else {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}
