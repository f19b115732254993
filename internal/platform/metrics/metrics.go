package metrics

import (
	"context"
	"net/http"
	"time"

	"livestock-records/internal/domain/records"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livestock"

// Recorder implementa records.Observer sobre Prometheus.
type Recorder struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRegistry crea un registry con los collectors de proceso y runtime.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Mutaciones del store por operación y resultado.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duración de las mutaciones del store, persistencia incluida.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(r.ops, r.duration)
	return r
}

func (r *Recorder) Observe(_ context.Context, op string, success bool, d time.Duration) {
	result := "ok"
	if !success {
		result = "error"
	}
	r.ops.WithLabelValues(op, result).Inc()
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}

// Counter es lo que necesitan los gauges; *records.Store lo cumple.
type Counter interface {
	Count(c records.Collection) int
}

// RegisterCollectionGauges expone livestock_records{collection=...}.
func RegisterCollectionGauges(reg prometheus.Registerer, c Counter) {
	for _, col := range records.Collections {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "records",
			Help:        "Registros actuales por colección.",
			ConstLabels: prometheus.Labels{"collection": string(col)},
		}, func() float64 { return float64(c.Count(col)) }))
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
