package metric

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountValidation(t *testing.T) {
	m := NewMetrics()

	m.CountValidation("conformant")
	m.CountValidation("conformant")
	m.CountValidation("nonconformant")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("conformant")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("nonconformant")))
}

func TestObserveStage(t *testing.T) {
	m := NewMetrics()
	m.ObserveStage("fetch_resource", 25*time.Millisecond)

	count := testutil.CollectAndCount(m.ValidationDuration)
	assert.Equal(t, 1, count)
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.CountValidation("conformant")
	assert.Equal(t, float64(0), testutil.ToFloat64(b.ValidationsTotal.WithLabelValues("conformant")))
}

func TestHandlerServesExposition(t *testing.T) {
	m := NewMetrics()
	m.CountValidation("engine_failure")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "semvalid_pipeline_validations_total")
}
