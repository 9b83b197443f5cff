// Command logbook-render builds one weekly logbook from a YAML file without
// the web service.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/garyjia/pt-logbook/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// weekFile is the YAML layout read by --input.
type weekFile struct {
	Header struct {
		Department  string `yaml:"department"`
		StudentName string `yaml:"student_name"`
		RegNo       string `yaml:"reg_no"`
		Company     string `yaml:"company"`
		WeekNo      int    `yaml:"week_no"`
		FromDate    string `yaml:"from_date"`
		ToDate      string `yaml:"to_date"`
	} `yaml:"header"`
	Days map[string]struct {
		Date     string `yaml:"date"`
		Activity string `yaml:"activity"`
	} `yaml:"days"`
	Operations []struct {
		Operation string `yaml:"operation"`
		Machinery string `yaml:"machinery"`
	} `yaml:"operations"`
	Diagram string `yaml:"diagram"`
}

func loadWeek(path string) (*weekFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	var w weekFile
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return &w, nil
}

func (w *weekFile) header() logbook.HeaderInfo {
	return logbook.HeaderInfo{
		Department:  w.Header.Department,
		StudentName: w.Header.StudentName,
		RegNo:       w.Header.RegNo,
		Company:     w.Header.Company,
		WeekNo:      w.Header.WeekNo,
		FromDate:    w.Header.FromDate,
		ToDate:      w.Header.ToDate,
	}
}

func (w *weekFile) days() map[string]logbook.DayEntry {
	days := make(map[string]logbook.DayEntry, len(w.Days))
	for name, d := range w.Days {
		days[name] = logbook.DayEntry{Date: d.Date, Activity: d.Activity}
	}
	return days
}

func (w *weekFile) operations() []logbook.Operation {
	ops := make([]logbook.Operation, 0, len(w.Operations))
	for _, op := range w.Operations {
		ops = append(ops, logbook.Operation{Operation: op.Operation, Machinery: op.Machinery})
	}
	return ops
}

// diagramPath resolves a relative diagram against the directory of the YAML file.
func (w *weekFile) diagramPath(input string) string {
	if w.Diagram == "" || filepath.IsAbs(w.Diagram) {
		return w.Diagram
	}
	return filepath.Join(filepath.Dir(input), w.Diagram)
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		input       string
		outDir      string
		format      string
		institution string
		college     string
	)

	cmd := &cobra.Command{
		Use:           "logbook-render",
		Short:         "Render a weekly practical training logbook from YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := loadWeek(input)
			if err != nil {
				return err
			}

			builder, err := logbook.NewBuilder(logbook.Config{
				OutputDir:   outDir,
				Format:      logbook.Format(format),
				Institution: institution,
				College:     college,
			}, logger)
			if err != nil {
				return err
			}

			path, err := builder.Build(week.header(), week.days(), week.operations(), week.diagramPath(input))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML file describing the week")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory receiving the logbook")
	cmd.Flags().StringVarP(&format, "format", "f", string(logbook.FormatDOCX), "Output format: docx or xlsx")
	cmd.Flags().StringVar(&institution, "institution", logbook.DefaultInstitution, "Institution line")
	cmd.Flags().StringVar(&college, "college", logbook.DefaultCollege, "College line")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func main() {
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "logbook-render: %v\n", err)
		os.Exit(1)
	}
}
