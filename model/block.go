package model

import "strings"

// BlockKind discriminates the variants of a layout block
type BlockKind int

const (
	BlockKindUnknown BlockKind = iota
	BlockKindText
	BlockKindImage
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindText:
		return "text"
	case BlockKindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Span style flags. Bit 4 carries bold, matching the flag layout PDF text
// extractors conventionally emit.
const (
	FlagBold uint32 = 1 << 4
)

// Span is a run of text sharing one font size and style within a line.
// Spans are produced by the decoder and never mutated afterward.
type Span struct {
	// Text is the literal text content
	Text string

	// Size is the font size in points (floating point; the layout engine
	// rounds it to the nearest integer)
	Size float64

	// Flags is the style-flag bitfield
	Flags uint32
}

// Bold reports whether the span's bold flag is set
func (s Span) Bold() bool {
	return s.Flags&FlagBold != 0
}

// Line is an ordered sequence of spans sharing a vertical position
type Line struct {
	Spans []Span
	Rect  Rect
}

// Text returns the concatenated span texts of the line
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Block is a layout-level grouping of lines sharing spatial proximity.
// Only text blocks carry lines; other kinds carry just a bounding rectangle.
type Block struct {
	Kind  BlockKind
	Lines []Line
	Rect  Rect
}

// IsText reports whether the block participates in text classification
func (b Block) IsText() bool {
	return b.Kind == BlockKindText
}

// Text returns the concatenated text of all spans in all lines,
// ignoring per-line structure
func (b Block) Text() string {
	var sb strings.Builder
	for _, line := range b.Lines {
		for _, s := range line.Spans {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Page holds one page's blocks in reading order: top to bottom, then left
// to right for blocks in the same vertical band.
type Page struct {
	// Number is the 1-indexed page number
	Number int

	// Width and Height of the page media box in points
	Width  float64
	Height float64

	// Blocks in reading order
	Blocks []Block
}

// TextBlockCount returns the number of text blocks on the page
func (p *Page) TextBlockCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, b := range p.Blocks {
		if b.IsText() {
			n++
		}
	}
	return n
}

// HasText reports whether any block on the page carries span text
func (p *Page) HasText() bool {
	if p == nil {
		return false
	}
	for _, b := range p.Blocks {
		if !b.IsText() {
			continue
		}
		for _, line := range b.Lines {
			if len(line.Spans) > 0 {
				return true
			}
		}
	}
	return false
}

// EmbeddedImage is a raw image payload extracted from a page, used by the
// optional OCR fallback for pages without extractable text.
type EmbeddedImage struct {
	// Data is the encoded image bytes
	Data []byte

	// Format is the payload encoding ("png", "jpg", "tiff", ...)
	Format string
}
