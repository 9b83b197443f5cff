package metrics

import (
	"net/http"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "logbook"

// PrometheusRecorder implements port.MetricsRecorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry           *prom.Registry
	generationDuration *prom.HistogramVec
	generations        *prom.CounterVec
	diagramUploads     *prom.CounterVec
}

// NewPrometheusRecorder registers the logbook metrics on reg, or on a fresh
// registry with Go and process collectors when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	pr := &PrometheusRecorder{
		registry: reg,
		generationDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time to assemble and save one logbook document",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		generations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Logbook documents generated by format and result",
		}, []string{"format", "result"}),
		diagramUploads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagram_uploads_total",
			Help:      "Activity diagram uploads by source kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.generationDuration, pr.generations, pr.diagramUploads)
	return pr
}

// RecordGeneration observes one document generation
func (p *PrometheusRecorder) RecordGeneration(format string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	p.generations.WithLabelValues(format, result).Inc()
	if err == nil {
		p.generationDuration.WithLabelValues(format).Observe(d.Seconds())
	}
}

// RecordDiagramUpload counts an accepted diagram upload
func (p *PrometheusRecorder) RecordDiagramUpload(kind string) {
	p.diagramUploads.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

var _ port.MetricsRecorder = (*PrometheusRecorder)(nil)
