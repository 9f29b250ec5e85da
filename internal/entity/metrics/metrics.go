package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the entity desk.
// Tracks mutations, persistence health, exports and the change feed.
type Metrics struct {
	EntitiesCreated    prometheus.Counter
	FieldUpdates       *prometheus.CounterVec
	Selections         prometheus.Counter
	EntitiesTotal      prometheus.Gauge
	StoreLoadFallbacks prometheus.Counter
	StoreWriteFailures *prometheus.CounterVec
	PersistDuration    prometheus.Histogram
	Exports            *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
}

// New registers the entity metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EntitiesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "kycdesk_entities_created_total",
			Help: "Total number of entities created",
		}),
		FieldUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdesk_field_updates_total",
			Help: "Total number of field edits by group",
		}, []string{"group"}),
		Selections: f.NewCounter(prometheus.CounterOpts{
			Name: "kycdesk_selections_total",
			Help: "Total number of entity selections",
		}),
		EntitiesTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "kycdesk_entities",
			Help: "Number of entities in the directory",
		}),
		StoreLoadFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "kycdesk_store_load_fallbacks_total",
			Help: "Stored collections discarded as unreadable",
		}),
		StoreWriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdesk_store_write_failures_total",
			Help: "Failed writes to the store by key",
		}, []string{"key"}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycdesk_persist_duration_seconds",
			Help:    "Duration of writing the directory to the store",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdesk_profile_exports_total",
			Help: "Profile text exports by scope (section or full)",
		}, []string{"scope"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdesk_change_events_total",
			Help: "Change feed events by outcome (published, failed, dropped)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementEntitiesCreated() {
	if m == nil {
		return
	}
	m.EntitiesCreated.Inc()
}

// IncrementFieldUpdate counts an edit of a field in group ("basic" for top-level fields).
func (m *Metrics) IncrementFieldUpdate(group string) {
	if m == nil {
		return
	}
	m.FieldUpdates.WithLabelValues(group).Inc()
}

func (m *Metrics) IncrementSelections() {
	if m == nil {
		return
	}
	m.Selections.Inc()
}

func (m *Metrics) SetEntitiesTotal(n int) {
	if m == nil {
		return
	}
	m.EntitiesTotal.Set(float64(n))
}

func (m *Metrics) IncrementLoadFallback() {
	if m == nil {
		return
	}
	m.StoreLoadFallbacks.Inc()
}

func (m *Metrics) IncrementWriteFailure(key string) {
	if m == nil {
		return
	}
	m.StoreWriteFailures.WithLabelValues(key).Inc()
}

// ObservePersist records the duration of a save.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePersist(start time.Time) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementExport(scope string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementEvent(outcome string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(outcome).Inc()
}
