package port

import (
	"context"
	"time"

	"github.com/garyjia/pt-logbook/internal/logbook"
)

// DayActivity is one day of a week as shown to clients and the summarizer.
type DayActivity struct {
	Day      string `json:"day"`
	Activity string `json:"activity"`
}

// ActivitySummarizer drafts a one-paragraph summary of a training week.
type ActivitySummarizer interface {
	SummarizeWeek(ctx context.Context, week int, days []DayActivity, operations []string) (string, error)
}

// DiagramRasterizer turns an uploaded PDF into a PNG image.
type DiagramRasterizer interface {
	ToPNG(pdf []byte) ([]byte, error)
}

// LogbookBuilder renders and saves a weekly logbook file.
type LogbookBuilder interface {
	Build(header logbook.HeaderInfo, days map[string]logbook.DayEntry, operations []logbook.Operation, diagramPath string) (string, error)
	Renderer() logbook.Renderer
}

// MetricsRecorder receives document generation measurements.
type MetricsRecorder interface {
	RecordGeneration(format string, duration time.Duration, err error)
	RecordDiagramUpload(kind string)
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) RecordGeneration(string, time.Duration, error) {}
func (NoopMetrics) RecordDiagramUpload(string)                    {}
