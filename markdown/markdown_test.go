package markdown

import (
	"strings"
	"testing"
)

func TestPageMarker(t *testing.T) {
	if got := PageMarker(1); got != "\n<!-- Page 1 -->\n" {
		t.Errorf("PageMarker(1) = %q", got)
	}
	if got := PageMarker(42); got != "\n<!-- Page 42 -->\n" {
		t.Errorf("PageMarker(42) = %q", got)
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		level    int
		text     string
		expected string
	}{
		{1, "Title", "# Title\n"},
		{2, "Section", "## Section\n"},
		{3, "Subsection", "### Subsection\n"},
	}

	for _, tt := range tests {
		if got := Heading(tt.level, tt.text); got != tt.expected {
			t.Errorf("Heading(%d, %q) = %q, want %q", tt.level, tt.text, got, tt.expected)
		}
	}
}

func TestNormalizeCollapsesNewlines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"three newlines", "a\n\n\nb", "a\n\nb"},
		{"many newlines", "a\n\n\n\n\n\nb", "a\n\nb"},
		{"two newlines kept", "a\n\nb", "a\n\nb"},
		{"single newline kept", "a\nb", "a\nb"},
		{"trims edges", "\n\n\na\n\n\n", "a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("%s: Normalize(%q) = %q, want %q", tt.name, tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"a\n\n\n\nb\n\n\nc",
		"\n\nx\n\n",
		"plain text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestJoin(t *testing.T) {
	fragments := []string{
		PageMarker(1),
		Heading(1, "Title"),
		"A paragraph.\n",
		Blank,
		"Another paragraph.\n",
	}

	got := Join(fragments)

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("joined output contains 3+ consecutive newlines: %q", got)
	}
	if !strings.HasPrefix(got, "<!-- Page 1 -->") {
		t.Errorf("expected output to start with page marker, got %q", got)
	}
	wantOrder := []string{"<!-- Page 1 -->", "# Title", "A paragraph.", "Another paragraph."}
	idx := 0
	for _, w := range wantOrder {
		pos := strings.Index(got[idx:], w)
		if pos < 0 {
			t.Fatalf("missing %q in output %q", w, got)
		}
		idx += pos
	}
}
