package markpdf

import (
	"fmt"
	"sort"

	"github.com/tsawler/markpdf/decoder"
	"github.com/tsawler/markpdf/layout"
	"github.com/tsawler/markpdf/markdown"
	"github.com/tsawler/markpdf/ocr"
)

// Converter provides a fluent interface for converting PDF documents to
// Markdown. Each configuration method returns a new Converter instance,
// making it safe for concurrent use and allowing method chaining.
type Converter struct {
	// Source
	filename string

	// Decoder
	dec decoder.Decoder

	// Lifecycle
	ownsDecoder   bool // true if we opened the decoder and should close it
	decoderOpened bool // true if decoder has been opened

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename:      c.filename,
		dec:           c.dec,
		ownsDecoder:   c.ownsDecoder,
		decoderOpened: c.decoderOpened,
		options:       c.options.clone(),
		err:           c.err,
		warnings:      append([]Warning(nil), c.warnings...),
	}
}

// ensureDecoder opens the decoder if not already open.
func (c *Converter) ensureDecoder() error {
	if c.decoderOpened {
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	dec, err := decoder.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	c.dec = dec
	c.ownsDecoder = true
	c.decoderOpened = true
	return nil
}

// Close releases resources associated with the Converter.
// It is safe to call Close multiple times.
func (c *Converter) Close() error {
	if c.ownsDecoder && c.dec != nil {
		err := c.dec.Close()
		c.dec = nil
		c.ownsDecoder = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Pages specifies which pages to convert (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	md, _, err := markpdf.Open("doc.pdf").Pages(1, 3, 5).Markdown()
func (c *Converter) Pages(pages ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append(newConv.options.pages, pages...)
	return newConv
}

// PageRange specifies a range of pages to convert (1-indexed, inclusive).
//
// Example:
//
//	md, _, err := markpdf.Open("doc.pdf").PageRange(5, 10).Markdown()
func (c *Converter) PageRange(start, end int) *Converter {
	newConv := c.clone()
	for i := start; i <= end; i++ {
		newConv.options.pages = append(newConv.options.pages, i)
	}
	return newConv
}

// WithOCR enables the OCR fallback: pages without extractable text are
// run through OCR on their embedded images instead of being skipped.
// Requires a binary built with the "ocr" build tag and Tesseract installed;
// otherwise such pages produce a warning and are skipped as usual.
//
// Example:
//
//	md, _, err := markpdf.Open("scan.pdf").WithOCR().Markdown()
func (c *Converter) WithOCR() *Converter {
	newConv := c.clone()
	newConv.options.ocr = true
	return newConv
}

// OCRLanguage sets the language(s) for OCR recognition. Multiple languages
// can be specified as a "+" separated string (e.g., "eng+fra").
// Implies WithOCR.
//
// Example:
//
//	md, _, err := markpdf.Open("scan.pdf").OCRLanguage("eng+deu").Markdown()
func (c *Converter) OCRLanguage(lang string) *Converter {
	newConv := c.clone()
	newConv.options.ocr = true
	newConv.options.ocrLanguage = lang
	return newConv
}

// GapFactor overrides the paragraph-break sensitivity: the fraction of the
// body font size that a vertical gap between blocks must exceed to count
// as a paragraph break.
//
// Example:
//
//	md, _, err := markpdf.Open("doc.pdf").GapFactor(1.2).Markdown()
func (c *Converter) GapFactor(factor float64) *Converter {
	newConv := c.clone()
	if factor <= 0 {
		if newConv.err == nil {
			newConv.err = fmt.Errorf("gap factor must be positive, got %v", factor)
		}
		return newConv
	}
	newConv.options.gapFactor = factor
	return newConv
}

// PageCount returns the number of pages in the document.
// Note: This opens the decoder if needed. The decoder remains open.
//
// Example:
//
//	count, err := markpdf.Open("document.pdf").PageCount()
func (c *Converter) PageCount() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if err := c.ensureDecoder(); err != nil {
		return 0, err
	}
	return c.dec.PageCount(), nil
}

// ============================================================================
// Terminal Operations (execute conversion and return results)
// ============================================================================

// Markdown converts the configured pages and returns the Markdown document.
// This is a terminal operation that closes the underlying decoder.
//
// Returns the Markdown text, any warnings encountered during processing,
// and an error if conversion failed. Warnings indicate non-fatal issues
// (e.g., a page with no extractable text) where conversion succeeded but
// the output may be incomplete.
//
// Each converted page contributes an HTML comment marker recording its
// page number, so document positions remain traceable in the output.
//
// Example:
//
//	md, warnings, err := markpdf.Open("document.pdf").Markdown()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", markpdf.FormatWarnings(warnings))
//	}
func (c *Converter) Markdown() (string, []Warning, error) {
	if c.err != nil {
		return "", nil, c.err
	}

	if err := c.ensureDecoder(); err != nil {
		return "", nil, err
	}
	defer c.Close()

	pageNumbers, err := c.resolvePages()
	if err != nil {
		return "", nil, err
	}

	profiler := layout.NewProfiler()
	assembler := c.newAssembler()
	st := &layout.State{}

	var fragments []string
	for _, pageNr := range pageNumbers {
		page, err := c.dec.Page(pageNr)
		if err != nil {
			return "", nil, fmt.Errorf("page %d: %w", pageNr, err)
		}

		if !page.HasText() {
			if text := c.tryOCR(pageNr); text != "" {
				fragments = append(fragments, markdown.PageMarker(pageNr), text)
				continue
			}
			c.warnings = append(c.warnings, Warning{
				Page:    pageNr,
				Message: "no extractable text; page skipped",
			})
			continue
		}

		profile := profiler.Profile(page.Blocks)
		if profile == nil {
			// Text present but no usable size statistics.
			profile = &layout.StyleProfile{
				BodySize: layout.DefaultProfilerConfig().FallbackBodySize,
			}
		}

		fragments = append(fragments, markdown.PageMarker(pageNr))
		fragments = append(fragments, assembler.Page(page.Blocks, profile, st)...)
	}

	return markdown.Join(fragments), c.warnings, nil
}

// newAssembler builds the assembler honoring a GapFactor override.
func (c *Converter) newAssembler() *layout.Assembler {
	if c.options.gapFactor > 0 {
		return layout.NewAssemblerWithConfig(layout.AssemblerConfig{
			GapFactor: c.options.gapFactor,
		})
	}
	return layout.NewAssembler()
}

// tryOCR attempts the OCR fallback for a page without extractable text.
// It returns the recognized text, or "" when OCR is disabled, unavailable,
// or produced nothing; failures are recorded as warnings, never errors.
func (c *Converter) tryOCR(pageNr int) string {
	if !c.options.ocr {
		return ""
	}

	provider, ok := c.dec.(decoder.ImageProvider)
	if !ok {
		return ""
	}

	images, err := provider.PageImages(pageNr)
	if err != nil {
		c.warnings = append(c.warnings, Warning{
			Page:    pageNr,
			Message: fmt.Sprintf("OCR image extraction failed: %v", err),
		})
		return ""
	}
	if len(images) == 0 {
		return ""
	}

	client, err := ocr.New()
	if err != nil {
		c.warnings = append(c.warnings, Warning{
			Page:    pageNr,
			Message: fmt.Sprintf("OCR unavailable: %v", err),
		})
		return ""
	}
	defer client.Close()

	if c.options.ocrLanguage != "" {
		if err := client.SetLanguage(c.options.ocrLanguage); err != nil {
			c.warnings = append(c.warnings, Warning{
				Page:    pageNr,
				Message: fmt.Sprintf("OCR language %q rejected: %v", c.options.ocrLanguage, err),
			})
		}
	}

	text, err := client.RecognizePage(images)
	if err != nil {
		c.warnings = append(c.warnings, Warning{
			Page:    pageNr,
			Message: fmt.Sprintf("OCR failed: %v", err),
		})
		return ""
	}
	return text
}

// resolvePages returns the 1-indexed page numbers to convert, in order.
func (c *Converter) resolvePages() ([]int, error) {
	pageCount := c.dec.PageCount()

	// If no pages specified, use all pages
	if len(c.options.pages) == 0 {
		pageNumbers := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageNumbers[i] = i + 1
		}
		return pageNumbers, nil
	}

	// Validate and deduplicate
	seen := make(map[int]bool)
	var pageNumbers []int
	for _, p := range c.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pageNumbers = append(pageNumbers, p)
		}
	}

	sort.Ints(pageNumbers)
	return pageNumbers, nil
}
