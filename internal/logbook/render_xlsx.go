package logbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XlsxContentType is the MIME type of SpreadsheetML workbooks.
const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	xlsxSheet = "Logbook"
	// xlsxGrid is divisible by every table width used in a logbook.
	xlsxGrid       = 12
	xlsxColWidth   = 7.0
	xlsxLineHeight = 15.0
	xlsxMaxHeight  = 409.0
	pixelsPerInch  = 96.0
)

// XlsxRenderer writes a Document as a single-sheet workbook laid out on a
// fixed column grid.
type XlsxRenderer struct {
	logger *zap.Logger
}

// NewXlsxRenderer creates a workbook renderer.
func NewXlsxRenderer(logger *zap.Logger) *XlsxRenderer {
	return &XlsxRenderer{logger: logger}
}

func (r *XlsxRenderer) Extension() string   { return string(FormatXLSX) }
func (r *XlsxRenderer) ContentType() string { return XlsxContentType }

type xlsxStyleKey struct {
	bold    bool
	size    float64
	align   Alignment
	valign  VerticalAlignment
	borders Borders
	framed  bool
}

type xlsxWriter struct {
	f      *excelize.File
	row    int
	styles map[xlsxStyleKey]int
	logger *zap.Logger
}

// Render writes doc to w.
func (r *XlsxRenderer) Render(doc Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(xlsxGrid)
	if err := f.SetColWidth(xlsxSheet, "A", last, xlsxColWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	xw := &xlsxWriter{f: f, row: 1, styles: make(map[xlsxStyleKey]int), logger: r.logger}
	for _, block := range doc.Blocks {
		var err error
		switch b := block.(type) {
		case Heading:
			size := 14.0
			if b.Level == 1 {
				size = 16
			}
			err = xw.line(b.Text, xlsxStyleKey{bold: true, size: size, align: b.Align})
		case Paragraph:
			err = xw.line(b.Text, xlsxStyleKey{align: b.Align})
		case PageBreak:
			err = xw.pageBreak()
		case *Table:
			err = xw.table(b)
		default:
			err = fmt.Errorf("unsupported block %T", block)
		}
		if err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func (xw *xlsxWriter) line(text string, key xlsxStyleKey) error {
	if err := xw.cell(xw.row, 1, xlsxGrid, text, key); err != nil {
		return err
	}
	xw.row++
	return nil
}

func (xw *xlsxWriter) pageBreak() error {
	ref, _ := excelize.CoordinatesToCellName(1, xw.row)
	if err := xw.f.InsertPageBreak(xlsxSheet, ref); err != nil {
		return fmt.Errorf("failed to insert page break: %w", err)
	}
	return nil
}

func (xw *xlsxWriter) table(t *Table) error {
	cols := t.Columns()
	if cols == 0 || xlsxGrid%cols != 0 {
		return fmt.Errorf("table %s has %d columns, grid needs a divisor of %d", t.Name, cols, xlsxGrid)
	}
	unit := xlsxGrid / cols

	for _, row := range t.Rows {
		height := xlsxLineHeight
		col := 0
		for _, c := range row.Cells {
			first := col*unit + 1
			span := c.Span * unit
			key := xlsxStyleKey{bold: c.Bold, align: c.Align, valign: c.VAlign}
			if c.Borders != nil {
				key.borders = *c.Borders
				key.framed = true
			}
			text := c.Text
			if c.Image != nil {
				h, ok := xw.picture(first, c.Image)
				if ok {
					text = ""
					height = max(height, h)
				} else {
					text = NoDiagramText
				}
			}
			if err := xw.cell(xw.row, first, span, text, key); err != nil {
				return err
			}
			height = max(height, float64(len(lines(text)))*xlsxLineHeight)
			col += c.Span
		}
		if err := xw.f.SetRowHeight(xlsxSheet, xw.row, min(height, xlsxMaxHeight)); err != nil {
			return fmt.Errorf("failed to set row height: %w", err)
		}
		xw.row++
	}
	// blank separator row between tables
	xw.row++
	return nil
}

// cell writes text into a horizontal range of span grid columns starting at
// col, merging it when wider than one column.
func (xw *xlsxWriter) cell(row, col, span int, text string, key xlsxStyleKey) error {
	start, _ := excelize.CoordinatesToCellName(col, row)
	end, _ := excelize.CoordinatesToCellName(col+span-1, row)
	if span > 1 {
		if err := xw.f.MergeCell(xlsxSheet, start, end); err != nil {
			return fmt.Errorf("failed to merge %s:%s: %w", start, end, err)
		}
	}
	if text != "" {
		if err := xw.f.SetCellValue(xlsxSheet, start, text); err != nil {
			return fmt.Errorf("failed to set %s: %w", start, err)
		}
	}
	style, err := xw.style(key)
	if err != nil {
		return err
	}
	if err := xw.f.SetCellStyle(xlsxSheet, start, end, style); err != nil {
		return fmt.Errorf("failed to style %s:%s: %w", start, end, err)
	}
	return nil
}

// picture places img at the top left of the given column on the current row
// and returns the row height in points it needs.
func (xw *xlsxWriter) picture(col int, img *Image) (float64, bool) {
	width, height, err := imageSize(img.Path)
	if err != nil {
		xw.logger.Warn("Diagram is not a readable image, using placeholder",
			zap.String("path", img.Path), zap.Error(err))
		return 0, false
	}
	scale := img.Width * pixelsPerInch / float64(width)
	ref, _ := excelize.CoordinatesToCellName(col, xw.row)
	if err := xw.f.AddPicture(xlsxSheet, ref, img.Path, &excelize.GraphicOptions{
		ScaleX:          scale,
		ScaleY:          scale,
		LockAspectRatio: true,
		AltText:         diagramTitle,
	}); err != nil {
		xw.logger.Warn("Failed to add diagram", zap.String("path", img.Path), zap.Error(err))
		return 0, false
	}
	// pixels to points
	return float64(height) * scale * 0.75, true
}

func (xw *xlsxWriter) style(key xlsxStyleKey) (int, error) {
	if id, ok := xw.styles[key]; ok {
		return id, nil
	}
	style := &excelize.Style{
		Font:      &excelize.Font{Bold: key.bold, Size: key.size},
		Alignment: &excelize.Alignment{WrapText: true},
	}
	if key.align == AlignCenter {
		style.Alignment.Horizontal = "center"
	}
	if key.valign == VAlignTop {
		style.Alignment.Vertical = "top"
	}
	if key.framed {
		style.Border = []excelize.Border{
			xlsxBorder("top", key.borders.Top),
			xlsxBorder("bottom", key.borders.Bottom),
			xlsxBorder("left", key.borders.Left),
			xlsxBorder("right", key.borders.Right),
		}
	}
	id, err := xw.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	xw.styles[key] = id
	return id, nil
}

// xlsxBorder maps a border edge onto excelize's numbered border styles.
func xlsxBorder(side string, b BorderStyle) excelize.Border {
	style := 1
	switch b.Line {
	case LineDouble:
		style = 6
	case LineDashed:
		style = 3
	case LineDotted:
		style = 4
	default:
		if b.Size >= 12 {
			style = 2
		}
	}
	c := "000000"
	if b.Color != "" && !strings.EqualFold(b.Color, "auto") {
		c = strings.TrimPrefix(b.Color, "#")
	}
	return excelize.Border{Type: side, Color: c, Style: style}
}
