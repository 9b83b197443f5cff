package main

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const weekYAML = `
header:
  department: Computer Science
  student_name: Jane Doe
  reg_no: 2021-04-099
  company: Acme Ltd
  week_no: 3
  from_date: "2024-03-04"
  to_date: "2024-03-08"
days:
  Monday:    {date: "2024-03-04", activity: Installed network switches}
  Tuesday:   {date: "2024-03-05", activity: Crimped cables}
  Wednesday: {date: "2024-03-06", activity: Configured VLANs}
  Thursday:  {date: "2024-03-07", activity: Tested links}
  Friday:    {date: "2024-03-08", activity: Wrote report}
operations:
  - {operation: Cable termination, machinery: Crimping tool}
`

func runRender(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRender_Docx(t *testing.T) {
	out := t.TempDir()
	path, err := runRender(t, "--input", writeInput(t, weekYAML), "--out", out)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, logbook.FileName("2021-04-099", 3, "docx")), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRender_Xlsx(t *testing.T) {
	out := t.TempDir()
	path, err := runRender(t, "-i", writeInput(t, weekYAML), "-o", out, "-f", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))
}

func TestRender_MissingDay(t *testing.T) {
	body := strings.Replace(weekYAML, "  Friday:    {date: \"2024-03-08\", activity: Wrote report}\n", "", 1)
	_, err := runRender(t, "--input", writeInput(t, body), "--out", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, logbook.ErrMissingData)
}

func TestRender_RequiresInput(t *testing.T) {
	_, err := runRender(t, "--out", t.TempDir())
	assert.Error(t, err)
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := runRender(t, "--input", writeInput(t, weekYAML), "--format", "odt")
	assert.ErrorIs(t, err, logbook.ErrUnknownFormat)
}

func writeDiagram(t *testing.T, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "diagram.png"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRender_DiagramRelativeToInput(t *testing.T) {
	input := writeInput(t, weekYAML+"diagram: diagram.png\n")
	writeDiagram(t, filepath.Dir(input))
	t.Chdir(t.TempDir())

	path, err := runRender(t, "--input", input, "--out", t.TempDir())
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	var media int
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			media++
		}
	}
	assert.Equal(t, 1, media)
}

func TestWeekFile_DiagramPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "d.png")
	tests := []struct {
		name    string
		diagram string
		want    string
	}{
		{name: "empty", diagram: "", want: ""},
		{name: "relative", diagram: "img/d.png", want: filepath.Join("weeks", "img", "d.png")},
		{name: "absolute", diagram: abs, want: abs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &weekFile{Diagram: tt.diagram}
			assert.Equal(t, tt.want, w.diagramPath(filepath.Join("weeks", "week.yaml")))
		})
	}
}
