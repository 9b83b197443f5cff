package logbook

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleHeader() HeaderInfo {
	return HeaderInfo{
		Department:  "Computer Science",
		StudentName: "Doe, Jane",
		RegNo:       "2021-04-099",
		Company:     "Acme Ltd",
		WeekNo:      3,
		FromDate:    "2024-06-03",
		ToDate:      "2024-06-07",
	}
}

func sampleDays() map[string]DayEntry {
	return map[string]DayEntry{
		"Monday":    {Date: "2024-06-03", Activity: "Installed network switches"},
		"Tuesday":   {Date: "2024-06-04", Activity: "Configured VLANs"},
		"Wednesday": {Date: "2024-06-05", Activity: "Cable testing"},
		"Thursday":  {Date: "2024-06-06", Activity: "Server rack setup"},
		"Friday":    {Date: "2024-06-07", Activity: "Documentation"},
	}
}

func sampleOperations() []Operation {
	return []Operation{
		{Operation: "Crimping", Machinery: "Crimping tool"},
		{Operation: "Testing", Machinery: "Cable tester"},
	}
}

func newTestBuilder(t *testing.T, format Format) (*Builder, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	b, err := NewBuilder(Config{OutputDir: dir, Format: format}, zap.NewNop())
	require.NoError(t, err)
	return b, dir
}

// writePNG creates a small opaque PNG and returns its path.
func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, "diagram.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}
