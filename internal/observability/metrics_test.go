package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveLLMRequest("gpt-4", "ok", time.Second, 1, 2)
	m.IncLowConfidence("growth_plan")
	m.IncLanguageFallback()
	assert.Nil(t, m.Registry())
}

func TestCountersAndExposition(t *testing.T) {
	m := New()
	m.ObservePipelineStage("mental_models", "validating", "failed")
	m.ObservePipelineStage("mental_models", "validating", "failed")
	m.IncLowConfidence("growth_plan")
	m.ObserveLLMAttempt("gpt-4", "rate_limited")

	assert.Equal(t, 2.0, counterValue(t, m, "force_generation_stage_total"))
	assert.Equal(t, 1.0, counterValue(t, m, "force_generation_low_confidence_total"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "force_llm_requests_total"))
}

func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
