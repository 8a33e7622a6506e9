package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreURL = "https://petstore.example.com/docs/swagger-ui-init.js"

func TestMetrics_ObserveCheck(t *testing.T) {
	m := New()

	m.ObserveCheck("petstore", petstoreURL, "unchanged", 120*time.Millisecond)
	m.ObserveCheck("petstore", petstoreURL, "unchanged", 0)
	m.ObserveCheck("petstore", petstoreURL, "failed", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checks.WithLabelValues("petstore", petstoreURL, "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checks.WithLabelValues("petstore", petstoreURL, "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.checkDuration))
}

func TestMetrics_SetEndpoints(t *testing.T) {
	m := New()

	m.SetEndpoints("petstore", petstoreURL, 12)
	m.SetEndpoints("petstore", petstoreURL, 14)

	assert.Equal(t, 14.0, testutil.ToFloat64(m.endpoints.WithLabelValues("petstore", petstoreURL)))
}

func TestMetrics_ObserveChange(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.ObserveChange("petstore", petstoreURL, 2, 1, at)
	m.ObserveChange("petstore", petstoreURL, 1, 0, at.Add(time.Minute))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.changes.WithLabelValues("petstore", petstoreURL, "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.changes.WithLabelValues("petstore", petstoreURL, "removed")))
	assert.Equal(t, float64(at.Add(time.Minute).Unix()), testutil.ToFloat64(m.lastChange.WithLabelValues("petstore", petstoreURL)))
}

func TestMetrics_ObserveNotification(t *testing.T) {
	m := New()

	m.ObserveNotification(nil)
	m.ObserveNotification(errors.New("boom"))
	m.ObserveNotification(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("failure")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetEndpoints("petstore", petstoreURL, 3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `specwatch_endpoints{source="petstore",url="`+petstoreURL+`"} 3`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_SameNameDifferentURLs(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.SetEndpoints("Docs", "https://a.example.com/docs", 4)
	m.SetEndpoints("Docs", "https://b.example.com/docs", 9)
	m.ObserveChange("Docs", "https://a.example.com/docs", 1, 0, at)
	m.ObserveChange("Docs", "https://b.example.com/docs", 0, 1, at.Add(time.Hour))

	assert.Equal(t, 2, testutil.CollectAndCount(m.endpoints))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.endpoints.WithLabelValues("Docs", "https://a.example.com/docs")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.endpoints.WithLabelValues("Docs", "https://b.example.com/docs")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.lastChange.WithLabelValues("Docs", "https://a.example.com/docs")))
	assert.Equal(t, float64(at.Add(time.Hour).Unix()), testutil.ToFloat64(m.lastChange.WithLabelValues("Docs", "https://b.example.com/docs")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// two instances must not collide on registration
	a, b := New(), New()
	a.SetEndpoints("x", "https://x.example.com", 1)

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Equal(t, 0, testutil.CollectAndCount(b.endpoints))
}
