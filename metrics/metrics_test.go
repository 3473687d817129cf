package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.IncSearchPage(ResultSuccess)
	m.IncSearchPage(ResultSuccess)
	m.IncSearchPage(ResultFailure)
	m.AddHits(7)
	m.IncSummary(ResultFailure)
	m.IncDelivery("email", ResultSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchPages.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchPages.WithLabelValues(ResultFailure)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.HitsCollected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Summaries.WithLabelValues(ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("email", ResultSuccess)))
}

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(2*time.Second, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastSuccessTime))

	m.ObserveRun(time.Second, true)
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTime), 0.0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncSearchPage(ResultSuccess)
		m.AddHits(3)
		m.IncSummary(ResultSuccess)
		m.IncDelivery("telegram", ResultFailure)
		m.ObserveRun(time.Second, true)
	})
	assert.NoError(t, m.Push("http://unused"))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	m.AddHits(4)

	require.NoError(t, m.Push(srv.URL))
	assert.True(t, strings.HasPrefix(gotPath, "/metrics/job/saas_trend_digest"), "path = %s", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushDisabled(t *testing.T) {
	m := New()
	assert.NoError(t, m.Push(""))
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := New()
	assert.Error(t, m.Push(srv.URL))
}
