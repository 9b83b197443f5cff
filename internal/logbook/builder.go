package logbook

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultInstitution  = "UNIVERSITY OF DAR ES SALAAM"
	DefaultCollege      = "COLLEGE OF INFORMATION AND COMMUNICATION TECHNOLOGIES"
	DefaultDiagramWidth = 6.0
)

// Config controls where and how logbooks are written.
type Config struct {
	OutputDir    string
	Format       Format
	Institution  string
	College      string
	DiagramWidth float64
	Border       BorderStyle
}

// Builder assembles and saves weekly logbooks. It holds no mutable state and
// is safe for concurrent use.
type Builder struct {
	outputDir string
	asm       *assembler
	renderer  Renderer
	logger    *zap.Logger
}

// NewBuilder creates a builder. Zero config values fall back to defaults.
func NewBuilder(cfg Config, logger *zap.Logger) (*Builder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer, err := NewRenderer(cfg.Format, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Institution == "" {
		cfg.Institution = DefaultInstitution
	}
	if cfg.College == "" {
		cfg.College = DefaultCollege
	}
	if cfg.DiagramWidth <= 0 {
		cfg.DiagramWidth = DefaultDiagramWidth
	}
	if cfg.Border == (BorderStyle{}) {
		cfg.Border = DefaultBorder
	}
	return &Builder{
		outputDir: cfg.OutputDir,
		asm: &assembler{
			institution:  cfg.Institution,
			college:      cfg.College,
			border:       cfg.Border,
			diagramWidth: cfg.DiagramWidth,
			logger:       logger,
		},
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Renderer returns the renderer used for output.
func (b *Builder) Renderer() Renderer {
	return b.renderer
}

// ValidRegNo reports whether regNo can be used as part of a file name in
// the output directory.
func ValidRegNo(regNo string) bool {
	if strings.TrimSpace(regNo) == "" || strings.Contains(regNo, "..") {
		return false
	}
	return !strings.ContainsAny(regNo, "/\\\x00")
}

// FileName returns the deterministic file name for a student's week.
func FileName(regNo string, weekNo int, ext string) string {
	return fmt.Sprintf("%s-week-%d-practical-training-logbook.%s", regNo, weekNo, ext)
}

// OutputPath returns where Build saves the logbook for regNo and weekNo.
func (b *Builder) OutputPath(regNo string, weekNo int) string {
	return filepath.Join(b.outputDir, FileName(regNo, weekNo, b.renderer.Extension()))
}

// Assemble validates the input and produces the document tree without
// writing anything.
func (b *Builder) Assemble(header HeaderInfo, days map[string]DayEntry, operations []Operation, diagramPath string) (Document, error) {
	return b.asm.assemble(Input{
		Header:      header,
		Days:        days,
		Operations:  operations,
		DiagramPath: diagramPath,
	})
}

// Build assembles the logbook, saves it under the output directory and
// returns its path. An existing file for the same student and week is
// replaced.
func (b *Builder) Build(header HeaderInfo, days map[string]DayEntry, operations []Operation, diagramPath string) (string, error) {
	doc, err := b.Assemble(header, days, operations, diagramPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := b.renderer.Render(doc, &buf); err != nil {
		return "", fmt.Errorf("failed to render logbook: %w", err)
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", &IOError{Op: "mkdir", Path: b.outputDir, Err: err}
	}

	path := b.OutputPath(header.RegNo, header.WeekNo)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}

	b.logger.Info("Logbook saved",
		zap.String("path", path),
		zap.String("reg_no", header.RegNo),
		zap.Int("week_no", header.WeekNo))
	return path, nil
}

// writeFileAtomic writes data next to path and renames it into place so a
// reader never sees a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".logbook-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
