package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New("test")
	app := fiber.New()
	app.Use(m.Middleware("/metrics"))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestObserveJob(t *testing.T) {
	m := New("test")
	m.ObserveJob("overdue", 10*time.Millisecond, nil)
	m.ObserveJob("overdue", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("overdue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CronJobErrorsTotal.WithLabelValues("overdue")))
}

func TestNilMetricsAddIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Inc("anything") })
}
