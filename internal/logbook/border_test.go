package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBorders_Idempotent(t *testing.T) {
	c := &Cell{Span: 1}
	ApplyBorders(c, DefaultBorder)
	first := *c.Borders
	ApplyBorders(c, DefaultBorder)

	assert.Equal(t, first, *c.Borders)
	assert.Equal(t, DefaultBorder, c.Borders.Left)
	assert.Equal(t, 0.5, DefaultBorder.Points())
}

func TestApplyBorders_NilCell(t *testing.T) {
	assert.NotPanics(t, func() { ApplyBorders(nil, DefaultBorder) })
}

func TestNewBorderedTable(t *testing.T) {
	style := BorderStyle{Line: LineDouble, Size: 8, Color: "FF0000"}
	tbl := NewBorderedTable("grid", 3, []float64{1, 1, 1, 1}, style)

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, 4, tbl.Columns())
	for _, r := range tbl.Rows {
		require.Len(t, r.Cells, 4)
		for _, c := range r.Cells {
			require.NotNil(t, c.Borders)
			assert.Equal(t, style, c.Borders.Top)
			assert.Equal(t, style, c.Borders.Right)
		}
	}
}

func TestTable_Merge(t *testing.T) {
	tbl := NewTable("m", 1, []float64{1, 1, 1, 1})
	tbl.Cell(0, 0).Text = "keep"
	tbl.Cell(0, 3).Text = "last"

	merged := tbl.Merge(0, 0, 2)
	require.NotNil(t, merged)
	assert.Equal(t, 3, merged.Span)
	assert.Equal(t, "keep", merged.Text)
	require.Len(t, tbl.Rows[0].Cells, 2)
	assert.Same(t, merged, tbl.Cell(0, 2))
	assert.Equal(t, "last", tbl.Cell(0, 3).Text)
	assert.Nil(t, tbl.Cell(0, 4))
	assert.Nil(t, tbl.Merge(5, 0, 1))
}

func TestTable_MergeKeepsExistingSpan(t *testing.T) {
	tbl := NewTable("m", 1, []float64{1, 1, 1, 1})
	tbl.Merge(0, 0, 1)

	merged := tbl.Merge(0, 0, 3)
	require.NotNil(t, merged)
	assert.Equal(t, 4, merged.Span)
	require.Len(t, tbl.Rows[0].Cells, 1)
	assert.Same(t, merged, tbl.Cell(0, 3))
}

func TestDocument_WithCopies(t *testing.T) {
	base := Document{}.With(Paragraph{Text: "a"})
	left := base.With(Paragraph{Text: "b"})
	right := base.With(Paragraph{Text: "c"})

	assert.Len(t, base.Blocks, 1)
	assert.Equal(t, Paragraph{Text: "b"}, left.Blocks[1])
	assert.Equal(t, Paragraph{Text: "c"}, right.Blocks[1])
}
