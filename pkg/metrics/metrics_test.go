package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer("scheduling", reg)

	m.ObserveHTTP("POST", "/api/v1/bookings", 201, 20*time.Millisecond)
	m.ObserveQuery("select", time.Millisecond, nil)
	m.ObserveQuery("insert", time.Millisecond, errors.New("boom"))
	m.ObserveLedger("reserve", "conflict")
	m.ObserveLedger("reserve", "conflict")
	m.ObserveCache(true)
	m.ObserveSlots(12)
	m.ObserveEvent("booking.confirmed", nil)
	m.ObserveTransaction("commit")
	m.SetPoolStats(5, 2, 3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ledgerOperationsTotal.WithLabelValues("reserve", "conflict")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbQueriesTotal.WithLabelValues("insert", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/bookings", "201")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
		m.ObserveQuery("select", time.Millisecond, nil)
		m.ObserveLedger("cancel", "ok")
		m.ObserveCache(false)
		m.ObserveSlots(0)
		m.ObserveEvent("booking.cancelled", nil)
		m.ObserveTransaction("rollback")
		m.SetPoolStats(0, 0, 0)
	})
}
