package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Generation(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())

	pr.RecordGeneration("docx", 20*time.Millisecond, nil)
	pr.RecordGeneration("docx", 0, errors.New("disk full"))
	pr.RecordGeneration("xlsx", 10*time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(pr.generations.WithLabelValues("docx", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.generations.WithLabelValues("docx", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.generations.WithLabelValues("xlsx", "success")))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.RecordDiagramUpload("pdf")

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `logbook_diagram_uploads_total{kind="pdf"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
