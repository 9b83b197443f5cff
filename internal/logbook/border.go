package logbook

// LineStyle is the stroke of a cell border.
type LineStyle string

const (
	LineSingle LineStyle = "single"
	LineDouble LineStyle = "double"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// BorderStyle describes one border edge. Size is in eighths of a point.
// Color is "auto" or a six digit hex RGB value.
type BorderStyle struct {
	Line  LineStyle
	Size  int
	Color string
}

// DefaultBorder is a thin single black line.
var DefaultBorder = BorderStyle{Line: LineSingle, Size: 4, Color: "auto"}

// Points returns the border width in points.
func (b BorderStyle) Points() float64 {
	return float64(b.Size) / 8
}

// Borders holds the four edges of a cell.
type Borders struct {
	Top    BorderStyle
	Bottom BorderStyle
	Left   BorderStyle
	Right  BorderStyle
}

// ApplyBorders sets all four edges of c to style. Calling it again with the
// same style leaves c unchanged.
func ApplyBorders(c *Cell, style BorderStyle) {
	if c == nil {
		return
	}
	c.Borders = &Borders{Top: style, Bottom: style, Left: style, Right: style}
}

// NewBorderedTable creates a table and borders every cell with style.
func NewBorderedTable(name string, rows int, widths []float64, style BorderStyle) *Table {
	t := NewTable(name, rows, widths)
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			ApplyBorders(c, style)
		}
	}
	return t
}
