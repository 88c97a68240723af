package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveUpstream("search", "200", 20*time.Millisecond)
	m.ObserveUpstream("search", "200", 30*time.Millisecond)
	m.SourceOutcome("current", "CoinGecko onchain", OutcomeNoData)
	m.Response("history", ResultUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("search", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceOutcomes.WithLabelValues("current", "CoinGecko onchain", OutcomeNoData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responses.WithLabelValues("history", ResultUnavailable)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("search", "200", time.Second)
	m.SourceOutcome("current", "x", OutcomeOK)
	m.Response("current", ResultData)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Response("current", ResultData)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `mnm_price_responses_total{operation="current",result="data"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
