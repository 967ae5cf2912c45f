package markpdf

// ConvertOptions holds configuration for Markdown conversion.
type ConvertOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// OCR fallback for pages without extractable text
	ocr         bool
	ocrLanguage string

	// Paragraph-break sensitivity; zero means the layout default
	gapFactor float64
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		pages:       nil, // nil means all pages
		ocr:         false,
		ocrLanguage: "",
		gapFactor:   0,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := ConvertOptions{
		ocr:         o.ocr,
		ocrLanguage: o.ocrLanguage,
		gapFactor:   o.gapFactor,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
