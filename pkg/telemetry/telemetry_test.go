package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider_ExportsCounters(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	mp, err := NewMeterProvider("test-service", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := mp.Meter("test").Int64Counter("product_cache_hits")
	require.NoError(t, err)

	// when
	counter.Add(context.Background(), 3)

	// then
	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "product_cache_hits") {
			found = true
			require.NotEmpty(t, f.GetMetric())
			assert.InDelta(t, 3, f.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
	assert.True(t, found, "counter should be exported")
}
