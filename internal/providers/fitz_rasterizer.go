package providers

import (
	"fmt"
	"image/png"
	"io"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer extracts text and renders pages from block plan PDFs.
// Documents are opened per call; plan PDFs are small and the artifact cache
// in front of this makes repeat work rare.
type FitzRasterizer struct {
	// DPI used when rendering a page to an image.
	DPI float64
}

func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{DPI: 150}
}

// PageTexts returns the extracted text of every page, in page order.
func (r *FitzRasterizer) PageTexts(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()

	texts := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s page %d: %w", path, n, err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// RenderPage rasterizes one page (zero-based) to PNG.
func (r *FitzRasterizer) RenderPage(path string, page int, w io.Writer) error {
	doc, err := fitz.New(path)
	if err != nil {
		return fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return fmt.Errorf("page %d out of range for %s", page, path)
	}

	img, err := doc.ImageDPI(page, r.DPI)
	if err != nil {
		return fmt.Errorf("failed to render %s page %d: %w", path, page, err)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png for %s page %d: %w", path, page, err)
	}
	return nil
}
