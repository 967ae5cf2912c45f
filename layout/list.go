package layout

import "regexp"

// listItemPattern matches lines that read as list items: optional leading
// whitespace, then a bullet character (*, -, +, •), a number followed by a
// period, or a single letter followed by a period, then required whitespace.
var listItemPattern = regexp.MustCompile(`^\s*([*\-+•]|\d+\.|[a-zA-Z]\.)\s+`)

// IsListItemText reports whether a raw (unformatted) line of text looks
// like a list item. The check runs against the line text before any inline
// emphasis markers are added.
func IsListItemText(text string) bool {
	return listItemPattern.MatchString(text)
}
