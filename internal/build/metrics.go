package build

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/fileroute/pkg/router"
)

const metricsNamespace = "fileroute"

// metrics holds the Prometheus metrics of generation passes.
type metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	routes        prometheus.Gauge
	layouts       prometheus.Gauge
	wrappers      prometheus.Gauge
	filesWritten  prometheus.Counter
	filesSkipped  prometheus.Counter
	problemsTotal *prometheus.CounterVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,

		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "passes_total",
			Help:      "Total number of generation passes by result",
		}, []string{"result"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of generation pass phases in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"phase"}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "routes",
			Help:      "Number of routes with at least one method",
		}),

		layouts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "layouts",
			Help:      "Number of registered layouts",
		}),

		wrappers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "wrappers",
			Help:      "Number of layout wrappers emitted per mode",
		}),

		filesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_written_total",
			Help:      "Generated files written",
		}),

		filesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_unchanged_total",
			Help:      "Generated files left untouched because their content did not change",
		}),

		problemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "validation_problems_total",
			Help:      "Validation problems by code",
		}, []string{"code"}),
	}
}

func (m *metrics) observeModel(model *router.Model, wrappers int) {
	m.routes.Set(float64(len(model.ActiveRoutes())))
	m.layouts.Set(float64(model.Layouts.Len()))
	m.wrappers.Set(float64(wrappers))
}

func (m *metrics) observeProblems(problems []router.ValidationError) {
	for _, p := range problems {
		m.problemsTotal.WithLabelValues(p.Type.Code()).Inc()
	}
}

// writeTextfile writes every metric to path in the text exposition format.
func (m *metrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
