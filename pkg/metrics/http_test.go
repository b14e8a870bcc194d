package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("/api/v1/repairs", "GET", 200, 25*time.Millisecond)
	m.Observe("", "GET", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",route="/api/v1/repairs",status="200"} 1`), body)
	assert.True(t, strings.Contains(body, `route="unmatched"`))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("/x", "GET", 200, time.Second)
	assert.NotNil(t, m.Handler())
}
