package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"quality_evaluator/internal/domain/value"
)

// Evaluations exposes the business counters for the evaluation lifecycle.
type Evaluations struct {
	created        *prometheus.CounterVec
	updated        *prometheus.CounterVec
	deleted        prometheus.Counter
	createDuration prometheus.Histogram
}

func NewEvaluations(reg prometheus.Registerer) *Evaluations {
	factory := promauto.With(reg)

	return &Evaluations{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quality_evaluations_created_total",
			Help: "Evaluations created, labelled by resulting classification.",
		}, []string{"classification"}),
		updated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quality_evaluations_updated_total",
			Help: "Evaluations updated, labelled by resulting classification.",
		}, []string{"classification"}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "quality_evaluations_deleted_total",
			Help: "Evaluations deleted.",
		}),
		createDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quality_evaluation_create_duration_seconds",
			Help:    "Time spent scoring and persisting one evaluation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Evaluations) EvaluationCreated(classification value.Classification) {
	m.created.WithLabelValues(string(classification)).Inc()
}

func (m *Evaluations) EvaluationUpdated(classification value.Classification) {
	m.updated.WithLabelValues(string(classification)).Inc()
}

func (m *Evaluations) EvaluationDeleted() {
	m.deleted.Inc()
}

func (m *Evaluations) ObserveCreateDuration(d time.Duration) {
	m.createDuration.Observe(d.Seconds())
}
