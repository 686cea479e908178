package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersIndependently(t *testing.T) {
	assert.NotPanics(t, func() {
		New("catalog", prometheus.NewRegistry())
		New("catalog", prometheus.NewRegistry())
	})
}

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	m.RecordOperation("product", "create")
	m.RecordOperation("product", "create")
	m.RecordFallback("products.list")
	m.RecordProductView("static-1", "seeds")
	m.AuthAttemptsCounter.Inc()
	m.TrackStoreOperation("products.get")(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsCounter.WithLabelValues("product", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreFallbackCounter.WithLabelValues("products.list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductViewsCounter.WithLabelValues("static-1", "seeds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttemptsCounter))

	count, err := testutil.GatherAndCount(reg, "test_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
