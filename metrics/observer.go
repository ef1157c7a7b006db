package metrics

import (
	"github.com/Konsultn-Engineering/tablemgr/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricBatchesTotal  = "tablemgr_batches_total"
	MetricRowsInserted  = "tablemgr_rows_inserted_total"
	MetricBatchDuration = "tablemgr_batch_duration_seconds"
	MetricBatchSize     = "tablemgr_batch_size"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Observer exports batch events as Prometheus metrics. Pass it to
// engine.WithObserver.
type Observer struct {
	batches  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.GaugeVec
}

// NewObserver registers the batch metrics on reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		// batches counts attempted batches by outcome.
		batches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricBatchesTotal,
				Help: "Insert batches attempted per table and outcome",
			},
			[]string{"table", "outcome"},
		),
		rows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRowsInserted,
				Help: "Rows sent in successful insert batches",
			},
			[]string{"table"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricBatchDuration,
				Help:    "Time spent executing one insert batch",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"table"},
		),
		// size is the row count of the last batch, for tuning the batch size.
		size: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricBatchSize,
				Help: "Rows in the most recent insert batch per table",
			},
			[]string{"table"},
		),
	}
}

func (o *Observer) ObserveBatch(ev engine.BatchEvent) {
	if ev.Err != nil {
		o.batches.WithLabelValues(ev.Table, OutcomeError).Inc()
		return
	}
	o.batches.WithLabelValues(ev.Table, OutcomeOK).Inc()
	o.rows.WithLabelValues(ev.Table).Add(float64(ev.Rows))
	o.duration.WithLabelValues(ev.Table).Observe(ev.Duration.Seconds())
	o.size.WithLabelValues(ev.Table).Set(float64(ev.Rows))
}

var _ engine.Observer = (*Observer)(nil)
