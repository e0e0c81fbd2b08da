package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "fanout")

	m.DeliveriesTotal.WithLabelValues("sent").Add(2)
	m.DeliveriesTotal.WithLabelValues("failed").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DeliveriesTotal.WithLabelValues("sent")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fanout_deliveries_total")

	// A second set on a separate registry must not panic.
	assert.NotPanics(t, func() { NewMetrics(prometheus.NewRegistry(), "fanout") })
}
