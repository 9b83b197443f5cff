package logbook

import (
	"fmt"
	"io"
	"strings"

	"baliance.com/gooxml/color"
	"baliance.com/gooxml/common"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
	"go.uber.org/zap"
)

// DocxContentType is the MIME type of WordprocessingML documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocxRenderer writes a Document as a Word file.
type DocxRenderer struct {
	logger *zap.Logger
}

// NewDocxRenderer creates a Word renderer.
func NewDocxRenderer(logger *zap.Logger) *DocxRenderer {
	return &DocxRenderer{logger: logger}
}

func (r *DocxRenderer) Extension() string   { return string(FormatDOCX) }
func (r *DocxRenderer) ContentType() string { return DocxContentType }

// Render writes doc to w.
func (r *DocxRenderer) Render(doc Document, w io.Writer) error {
	out := document.New()
	for _, block := range doc.Blocks {
		switch b := block.(type) {
		case Heading:
			p := out.AddParagraph()
			p.SetStyle(fmt.Sprintf("Heading%d", b.Level))
			setParagraphAlignment(p, b.Align)
			p.AddRun().AddText(b.Text)
		case Paragraph:
			p := out.AddParagraph()
			setParagraphAlignment(p, b.Align)
			if b.Text != "" {
				addLines(p.AddRun(), b.Text)
			}
		case PageBreak:
			out.AddParagraph().AddRun().AddPageBreak()
		case *Table:
			if err := r.renderTable(out, b); err != nil {
				return fmt.Errorf("failed to render table %s: %w", b.Name, err)
			}
		default:
			return fmt.Errorf("unsupported block %T", block)
		}
	}
	if err := out.Save(w); err != nil {
		return fmt.Errorf("failed to save docx: %w", err)
	}
	return nil
}

func (r *DocxRenderer) renderTable(out *document.Document, t *Table) error {
	table := out.AddTable()
	table.Properties().SetWidthPercent(100)

	for _, row := range t.Rows {
		tr := table.AddRow()
		col := 0
		for _, c := range row.Cells {
			cell := tr.AddCell()
			props := cell.Properties()
			props.SetWidth(measurement.Distance(spanWidth(t.Widths, col, c.Span)) * measurement.Inch)
			if c.Span > 1 {
				props.SetColumnSpan(c.Span)
			}
			if c.VAlign == VAlignTop {
				props.SetVerticalAlignment(wml.ST_VerticalJcTop)
			}
			if c.Borders != nil {
				borders := props.Borders()
				borders.SetTop(docxBorder(c.Borders.Top))
				borders.SetBottom(docxBorder(c.Borders.Bottom))
				borders.SetLeft(docxBorder(c.Borders.Left))
				borders.SetRight(docxBorder(c.Borders.Right))
			}

			p := cell.AddParagraph()
			setParagraphAlignment(p, c.Align)
			if c.SpaceBefore > 0 {
				p.Properties().Spacing().SetBefore(measurement.Distance(c.SpaceBefore) * measurement.Inch)
			}
			if c.Image != nil && r.addImage(out, p, c.Image) {
				col += c.Span
				continue
			}
			text := c.Text
			if c.Image != nil {
				text = NoDiagramText
			}
			run := p.AddRun()
			if c.Bold {
				run.Properties().SetBold(true)
			}
			addLines(run, text)
			col += c.Span
		}
	}
	return nil
}

// addImage embeds img inline in p. It reports false when the image cannot
// be loaded so the caller can fall back to text.
func (r *DocxRenderer) addImage(out *document.Document, p document.Paragraph, img *Image) bool {
	width, height, err := imageSize(img.Path)
	if err != nil {
		r.logger.Warn("Diagram is not a readable image, using placeholder",
			zap.String("path", img.Path), zap.Error(err))
		return false
	}
	src, err := common.ImageFromFile(img.Path)
	if err != nil {
		r.logger.Warn("Failed to load diagram", zap.String("path", img.Path), zap.Error(err))
		return false
	}
	ref, err := out.AddImage(src)
	if err != nil {
		r.logger.Warn("Failed to add diagram", zap.String("path", img.Path), zap.Error(err))
		return false
	}
	inline, err := p.AddRun().AddDrawingInline(ref)
	if err != nil {
		r.logger.Warn("Failed to place diagram", zap.String("path", img.Path), zap.Error(err))
		return false
	}
	w := measurement.Distance(img.Width) * measurement.Inch
	inline.SetSize(w, w*measurement.Distance(height)/measurement.Distance(width))
	return true
}

func setParagraphAlignment(p document.Paragraph, a Alignment) {
	if a == AlignCenter {
		p.Properties().SetAlignment(wml.ST_JcCenter)
	}
}

func addLines(run document.Run, text string) {
	for i, line := range lines(text) {
		if i > 0 {
			run.AddBreak()
		}
		if line != "" {
			run.AddText(line)
		}
	}
}

func docxBorder(b BorderStyle) (wml.ST_Border, color.Color, measurement.Distance) {
	line := wml.ST_BorderSingle
	switch b.Line {
	case LineDouble:
		line = wml.ST_BorderDouble
	case LineDashed:
		line = wml.ST_BorderDashed
	case LineDotted:
		line = wml.ST_BorderDotted
	}
	c := color.Auto
	if b.Color != "" && !strings.EqualFold(b.Color, "auto") {
		c = color.FromHex(b.Color)
	}
	return line, c, measurement.Distance(b.Points()) * measurement.Point
}

func spanWidth(widths []float64, from, span int) float64 {
	var w float64
	for i := from; i < from+span && i < len(widths); i++ {
		w += widths[i]
	}
	return w
}
