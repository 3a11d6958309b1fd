package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegister(t *testing.T) {
	reg := MetricsRegister()
	require.NotNil(t, reg)

	CrawlPagesTotal.WithLabelValues(`success`).Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["crawl_pages_total"])
	assert.True(t, names["crawl_tasks_in_flight"])
	assert.True(t, names["process_cpu_count"])
}

func TestCrawlPagesTotal(t *testing.T) {
	counterValue := func() float64 {
		m := &dto.Metric{}
		require.NoError(t, CrawlPagesTotal.WithLabelValues(`http_error`).Write(m))
		return m.GetCounter().GetValue()
	}

	before := counterValue()
	CrawlPagesTotal.WithLabelValues(`http_error`).Inc()
	assert.Equal(t, before+1, counterValue())
}
