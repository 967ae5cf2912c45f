package ocr

import (
	"bytes"
	"fmt"
	"image/png"

	"golang.org/x/image/tiff"

	"github.com/tsawler/markpdf/model"
)

// normalizePayload returns image bytes in a format Tesseract accepts
// directly. PDF image extraction commonly yields TIFF for CCITT and
// flate-compressed images; those are re-encoded as PNG. Everything else
// passes through unchanged.
func normalizePayload(img model.EmbeddedImage) ([]byte, error) {
	switch img.Format {
	case "tif", "tiff":
		decoded, err := tiff.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("decode tiff: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return img.Data, nil
	}
}
