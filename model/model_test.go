package model

import "testing"

func TestBlockKindString(t *testing.T) {
	tests := []struct {
		kind     BlockKind
		expected string
	}{
		{BlockKindUnknown, "unknown"},
		{BlockKindText, "text"},
		{BlockKindImage, "image"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("BlockKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestSpanBold(t *testing.T) {
	tests := []struct {
		name     string
		flags    uint32
		expected bool
	}{
		{"no flags", 0, false},
		{"bold flag", FlagBold, true},
		{"other bits only", 1 | 2, false},
		{"bold among other bits", FlagBold | 1, true},
	}

	for _, tt := range tests {
		s := Span{Text: "x", Size: 10, Flags: tt.flags}
		if got := s.Bold(); got != tt.expected {
			t.Errorf("%s: Bold() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestLineText(t *testing.T) {
	line := Line{Spans: []Span{
		{Text: "Hello "},
		{Text: "World"},
	}}
	if got := line.Text(); got != "Hello World" {
		t.Errorf("Line.Text() = %q, want %q", got, "Hello World")
	}
}

func TestBlockText(t *testing.T) {
	block := Block{
		Kind: BlockKindText,
		Lines: []Line{
			{Spans: []Span{{Text: "first "}, {Text: "line"}}},
			{Spans: []Span{{Text: " second"}}},
		},
	}
	if got := block.Text(); got != "first line second" {
		t.Errorf("Block.Text() = %q, want %q", got, "first line second")
	}
}

func TestBlockIsText(t *testing.T) {
	if !(Block{Kind: BlockKindText}).IsText() {
		t.Error("text block should report IsText()")
	}
	if (Block{Kind: BlockKindImage}).IsText() {
		t.Error("image block should not report IsText()")
	}
}

func TestPageHasText(t *testing.T) {
	empty := &Page{Number: 1}
	if empty.HasText() {
		t.Error("empty page should not have text")
	}

	imageOnly := &Page{Number: 1, Blocks: []Block{{Kind: BlockKindImage}}}
	if imageOnly.HasText() {
		t.Error("image-only page should not have text")
	}

	withText := &Page{Number: 1, Blocks: []Block{
		{Kind: BlockKindImage},
		{Kind: BlockKindText, Lines: []Line{{Spans: []Span{{Text: "hi"}}}}},
	}}
	if !withText.HasText() {
		t.Error("page with spans should have text")
	}
	if withText.TextBlockCount() != 1 {
		t.Errorf("TextBlockCount() = %d, want 1", withText.TextBlockCount())
	}

	var nilPage *Page
	if nilPage.HasText() || nilPage.TextBlockCount() != 0 {
		t.Error("nil page should report no text")
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 110, 50)
	if r.Width() != 100 {
		t.Errorf("Width() = %f, want 100", r.Width())
	}
	if r.Height() != 30 {
		t.Errorf("Height() = %f, want 30", r.Height())
	}
	c := r.Center()
	if c.X != 60 || c.Y != 35 {
		t.Errorf("Center() = %+v, want {60 35}", c)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if !r.Contains(Point{X: 5, Y: 5}) {
		t.Error("expected point inside")
	}
	if r.Contains(Point{X: 15, Y: 5}) {
		t.Error("expected point outside")
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 15, 15)
	c := NewRect(20, 20, 30, 30)

	if !a.Intersects(b) {
		t.Error("overlapping rectangles should intersect")
	}
	if a.Intersects(c) {
		t.Error("disjoint rectangles should not intersect")
	}
}

func TestRectUnion(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 20, 30)

	u := a.Union(b)
	want := NewRect(0, 0, 20, 30)
	if u != want {
		t.Errorf("Union() = %+v, want %+v", u, want)
	}

	// Union with an empty rect leaves the other unchanged
	if got := a.Union(Rect{}); got != a {
		t.Errorf("Union with empty = %+v, want %+v", got, a)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty Union = %+v, want %+v", got, b)
	}
}

func TestRectValidity(t *testing.T) {
	if !(NewRect(0, 0, 1, 1)).IsValid() {
		t.Error("positive-area rect should be valid")
	}
	if (Rect{}).IsValid() {
		t.Error("zero rect should not be valid")
	}
	if !(Rect{}).IsEmpty() {
		t.Error("zero rect should be empty")
	}
}

func TestPointDistance(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 3, Y: 4}
	if got := p.Distance(q); got != 5 {
		t.Errorf("Distance() = %f, want 5", got)
	}
}
