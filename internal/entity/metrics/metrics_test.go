package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementEntitiesCreated()
	m.IncrementFieldUpdate("banking")
	m.IncrementFieldUpdate("banking")
	m.IncrementWriteFailure("kyc_entities")
	m.SetEntitiesTotal(3)
	m.ObservePersist(time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntitiesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FieldUpdates.WithLabelValues("banking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWriteFailures.WithLabelValues("kyc_entities")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EntitiesTotal))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementEntitiesCreated()
		m.IncrementEvent("published")
		m.ObservePersist(time.Now())
	})
}
