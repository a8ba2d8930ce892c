package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SaleRegistered("s1")
	m.SaleRegistered("s1")
	m.StockConflict("sale")
	m.ObserveRequest("GET", "/api/ventas", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SalesTotal.WithLabelValues("s1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockConflicts.WithLabelValues("sale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/ventas", "200")))
}
