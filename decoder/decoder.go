package decoder

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/markpdf/model"
)

// Decoder is a page source: it exposes an ordered sequence of pages whose
// blocks are already in reading order. Implementations must tolerate being
// closed more than once.
type Decoder interface {
	// PageCount returns the number of pages in the document
	PageCount() int

	// Page returns the decoded page with the given 1-indexed number
	Page(number int) (*model.Page, error)

	// Close releases the underlying document resource
	Close() error
}

// ImageProvider is implemented by decoders that can hand out a page's
// embedded image payloads, enabling the OCR fallback for pages without
// extractable text.
type ImageProvider interface {
	PageImages(number int) ([]model.EmbeddedImage, error)
}

// PDFDecoder decodes PDF documents through pdfcpu
type PDFDecoder struct {
	f    *os.File
	ctx  *pdfmodel.Context
	dims []types.Dim
}

// Open reads and validates a PDF document. The returned decoder must be
// closed when done; Close is safe on every exit path including errors
// from Page.
func Open(path string) (*PDFDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	ctx, err := api.ReadValidateAndOptimize(f, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read pdf %q: %w", path, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("page dimensions of %q: %w", path, err)
	}

	return &PDFDecoder{f: f, ctx: ctx, dims: dims}, nil
}

// PageCount returns the number of pages in the document
func (d *PDFDecoder) PageCount() int {
	return d.ctx.PageCount
}

// Close releases the underlying file. Safe to call multiple times.
func (d *PDFDecoder) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Page decodes one page into positioned blocks in reading order.
// Pages that contain image XObjects additionally carry one image-kind
// block, so downstream classification sees that non-text content exists;
// its position is not resolved and its rectangle is empty.
func (d *PDFDecoder) Page(number int) (*model.Page, error) {
	if number < 1 || number > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range 1..%d", number, d.ctx.PageCount)
	}

	width, height := d.pageSize(number)
	page := &model.Page{Number: number, Width: width, Height: height}

	r, err := pdfcpu.ExtractPageContent(d.ctx, number)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", number, err)
	}
	if r != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", number, err)
		}
		interp := newInterpreter(d.pageFonts(number), height)
		page.Blocks = buildBlocks(interp.run(data))
	}

	if len(pdfcpu.ImageObjNrs(d.ctx, number)) > 0 {
		page.Blocks = append(page.Blocks, model.Block{Kind: model.BlockKindImage})
	}

	return page, nil
}

// PageImages extracts the page's embedded image payloads in object order
func (d *PDFDecoder) PageImages(number int) ([]model.EmbeddedImage, error) {
	if number < 1 || number > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range 1..%d", number, d.ctx.PageCount)
	}

	extracted, err := pdfcpu.ExtractPageImages(d.ctx, number, false)
	if err != nil {
		return nil, fmt.Errorf("page %d images: %w", number, err)
	}

	objNrs := make([]int, 0, len(extracted))
	for objNr := range extracted {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	var images []model.EmbeddedImage
	for _, objNr := range objNrs {
		img := extracted[objNr]
		data, err := io.ReadAll(img)
		if err != nil {
			continue // unreadable payload; the rest may still OCR
		}
		images = append(images, model.EmbeddedImage{Data: data, Format: img.FileType})
	}
	return images, nil
}

// pageSize returns the page's media box dimensions in points
func (d *PDFDecoder) pageSize(number int) (float64, float64) {
	if number-1 < len(d.dims) {
		dim := d.dims[number-1]
		return dim.Width, dim.Height
	}
	// Letter-size fallback when dimensions are unavailable.
	return 612, 792
}

// pageFonts maps the page's font resource names to base font names using
// pdfcpu's optimization context, which records which font objects each
// page references and under which resource names.
func (d *PDFDecoder) pageFonts(number int) map[string]string {
	fonts := make(map[string]string)
	if d.ctx.Optimize == nil || number > len(d.ctx.Optimize.PageFonts) {
		return fonts
	}
	for objNr, used := range d.ctx.Optimize.PageFonts[number-1] {
		if !used {
			continue
		}
		fontObj, ok := d.ctx.Optimize.FontObjects[objNr]
		if !ok {
			continue
		}
		for _, resourceName := range fontObj.ResourceNames {
			fonts[resourceName] = fontObj.FontName
		}
	}
	return fonts
}
