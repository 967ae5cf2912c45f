// Package markpdf converts the visual layout of PDF documents into
// Markdown, inferring heading structure from font sizes, paragraph breaks
// from vertical whitespace, and inline emphasis from bold font faces.
//
// Basic usage:
//
//	md, warnings, err := markpdf.Open("document.pdf").Markdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", markpdf.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := markpdf.Open("scan.pdf").
//	    Pages(1, 2, 3).
//	    WithOCR().
//	    Markdown()
//
// For advanced use cases, the lower-level decoder and layout packages are
// also available.
package markpdf

import (
	"fmt"
	"strings"

	"github.com/tsawler/markpdf/decoder"
)

// Warning describes a non-fatal issue encountered during conversion.
// Conversion succeeded but the output may be incomplete; for example a
// page without extractable text is skipped with a warning rather than
// failing the whole document.
type Warning struct {
	// Page is the 1-indexed page the warning refers to, or 0 when the
	// warning concerns the document as a whole.
	Page int

	// Message describes the issue.
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings renders warnings as a single semicolon-separated string
// for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Open opens a PDF file and returns a Converter for fluent configuration.
// The returned Converter must be closed when done, either explicitly via
// Close() or implicitly when calling a terminal operation like Markdown().
//
// Example:
//
//	md, warnings, err := markpdf.Open("document.pdf").Markdown()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDecoder creates a Converter from an already-opened decoder.
// This is useful when you need more control over the decoder lifecycle,
// or want to convert pages from a source other than a PDF file.
// Note: The caller is responsible for closing the decoder.
//
// Example:
//
//	dec, err := decoder.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer dec.Close()
//	md, warnings, err := markpdf.FromDecoder(dec).Markdown()
func FromDecoder(dec decoder.Decoder) *Converter {
	return &Converter{
		dec:           dec,
		ownsDecoder:   false,
		decoderOpened: true,
		options:       defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := markpdf.Must(markpdf.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustMarkdown is a helper that wraps a call to Markdown() and panics if
// the error is non-nil. It discards warnings and returns just the value.
// It is intended for use in scripts or tests where error handling would
// be cumbersome.
//
// Example:
//
//	md := markpdf.MustMarkdown(markpdf.Open("document.pdf").Markdown())
func MustMarkdown[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
