package logbook

// Alignment is the horizontal alignment of a paragraph or cell.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

// VerticalAlignment is the vertical placement of cell content.
type VerticalAlignment int

const (
	VAlignDefault VerticalAlignment = iota
	VAlignTop
)

// Block is one top-level element of a Document.
type Block interface {
	isBlock()
}

// Heading is a styled title line. Level 1 is the largest.
type Heading struct {
	Text  string
	Level int
	Align Alignment
}

// Paragraph is a plain text line. An empty Text yields a blank line.
type Paragraph struct {
	Text  string
	Align Alignment
}

// PageBreak starts a new page.
type PageBreak struct{}

// Image is an inline picture scaled to Width inches, height following the
// aspect ratio.
type Image struct {
	Path  string
	Width float64
}

// Cell is one table cell. Span is the number of grid columns it covers.
// Newlines in Text become line breaks.
type Cell struct {
	Text        string
	Bold        bool
	Align       Alignment
	VAlign      VerticalAlignment
	SpaceBefore float64
	Span        int
	Image       *Image
	Borders     *Borders
}

// Row is a table row. The spans of its cells add up to the table's column
// count.
type Row struct {
	Cells []*Cell
}

// Table is a grid of cells. Widths holds one entry per grid column, in inches.
type Table struct {
	Name   string
	Widths []float64
	Rows   []*Row
}

func (Heading) isBlock()   {}
func (Paragraph) isBlock() {}
func (PageBreak) isBlock() {}
func (*Table) isBlock()    {}

// NewTable creates a rows x len(widths) table of empty cells.
func NewTable(name string, rows int, widths []float64) *Table {
	t := &Table{Name: name, Widths: append([]float64(nil), widths...)}
	for i := 0; i < rows; i++ {
		r := &Row{Cells: make([]*Cell, len(widths))}
		for j := range r.Cells {
			r.Cells[j] = &Cell{Span: 1}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Columns returns the number of grid columns.
func (t *Table) Columns() int {
	return len(t.Widths)
}

// Cell returns the cell covering grid position (row, col), or nil when out
// of range.
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	pos := 0
	for _, c := range t.Rows[row].Cells {
		if col >= pos && col < pos+c.Span {
			return c
		}
		pos += c.Span
	}
	return nil
}

// Merge joins grid columns fromCol..toCol of row into one cell and returns
// it. The text of the first covered cell is kept.
func (t *Table) Merge(row, fromCol, toCol int) *Cell {
	if row < 0 || row >= len(t.Rows) || fromCol > toCol {
		return nil
	}
	r := t.Rows[row]
	var (
		merged *Cell
		cells  []*Cell
		pos    int
	)
	for _, c := range r.Cells {
		span := c.Span
		start, end := pos, pos+span-1
		pos += span
		if end < fromCol || start > toCol {
			cells = append(cells, c)
			continue
		}
		if merged == nil {
			merged = c
			merged.Span = 0
			cells = append(cells, merged)
		}
		merged.Span += span
	}
	r.Cells = cells
	return merged
}

// Document is the intermediate tree produced by the section pipeline.
// Renderers turn it into a concrete file format.
type Document struct {
	Blocks []Block
}

// With returns a copy of d with blocks appended. d itself is not modified.
func (d Document) With(blocks ...Block) Document {
	out := make([]Block, 0, len(d.Blocks)+len(blocks))
	out = append(out, d.Blocks...)
	out = append(out, blocks...)
	return Document{Blocks: out}
}

// Tables returns the tables of d in document order.
func (d Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Table returns the table with the given name, or nil.
func (d Document) Table(name string) *Table {
	for _, t := range d.Tables() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Headings returns the heading texts of d in document order.
func (d Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if h, ok := b.(Heading); ok {
			out = append(out, h.Text)
		}
	}
	return out
}
