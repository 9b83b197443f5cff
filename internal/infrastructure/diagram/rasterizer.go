package diagram

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// DefaultDPI renders an A4 page at roughly the width of the logbook's
// diagram cell.
const DefaultDPI = 150.0

// Rasterizer converts the first page of a PDF drawing to PNG
type Rasterizer struct {
	dpi    float64
	logger *zap.Logger
}

// NewRasterizer creates a new PDF rasterizer
func NewRasterizer(dpi float64, logger *zap.Logger) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: dpi, logger: logger}
}

// ToPNG renders page one of pdf
func (r *Rasterizer) ToPNG(pdf []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	img, err := doc.ImageDPI(0, r.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	r.logger.Debug("Diagram PDF rasterized",
		zap.Int("pages", doc.NumPage()),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return buf.Bytes(), nil
}

var _ port.DiagramRasterizer = (*Rasterizer)(nil)
