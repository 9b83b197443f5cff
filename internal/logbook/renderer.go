package logbook

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Format selects the output file type.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

// Renderer turns a Document into a file format.
type Renderer interface {
	Render(doc Document, w io.Writer) error
	Extension() string
	ContentType() string
}

// NewRenderer returns the renderer for format. An empty format selects DOCX.
func NewRenderer(format Format, logger *zap.Logger) (Renderer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatDOCX, "":
		return NewDocxRenderer(logger), nil
	case FormatXLSX:
		return NewXlsxRenderer(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// imageSize returns the pixel dimensions of the image at path.
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("image %s has zero size", path)
	}
	return cfg.Width, cfg.Height, nil
}

func lines(text string) []string {
	return strings.Split(text, "\n")
}
