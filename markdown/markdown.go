// Package markdown provides the output-fragment vocabulary of the converter:
// page markers, heading lines, bold emphasis markers, and the document-level
// normalization applied after all fragments have been emitted.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Blank is the fragment emitted for a paragraph break. Blank fragments
// collapse to a single empty line during normalization.
const Blank = ""

// BoldMarker is the emphasis marker pair wrapped around bold runs.
const BoldMarker = "**"

// PageMarker returns the fragment inserted before a page's content.
// Page numbers are 1-indexed.
func PageMarker(number int) string {
	return fmt.Sprintf("\n<!-- Page %d -->\n", number)
}

// Heading returns a heading fragment for the given level (1-3) and text.
func Heading(level int, text string) string {
	return strings.Repeat("#", level) + " " + text + "\n"
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Normalize collapses any run of three or more consecutive newlines to
// exactly two and trims leading and trailing whitespace. Normalize is
// idempotent: applying it twice yields the same result as once.
func Normalize(s string) string {
	return strings.TrimSpace(excessNewlines.ReplaceAllString(s, "\n\n"))
}

// Join joins fragments with a line separator and normalizes the result
// into the final document.
func Join(fragments []string) string {
	return Normalize(strings.Join(fragments, "\n"))
}
