package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("counter store down")
}

func newGateApp(t *testing.T, g *Gate) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(g.Handler())
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/notes", handler)
	app.Get("/other", handler)
	return app
}

func TestGate_GlobalKeySharesBudgetAcrossEndpoints(t *testing.T) {
	g, err := NewGate(NewMemoryCounter(), GlobalKey(), 100, time.Minute, zap.NewNop(), nil)
	require.NoError(t, err)
	app := newGateApp(t, g)

	// 100 requests pass regardless of which endpoint they hit
	for i := 0; i < 100; i++ {
		path := "/notes"
		if i%2 == 1 {
			path = "/other"
		}
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
	}

	// The 101st is rejected, whatever the endpoint
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGate_RejectionsKeepCounting(t *testing.T) {
	g, err := NewGate(NewMemoryCounter(), GlobalKey(), 2, time.Minute, zap.NewNop(), nil)
	require.NoError(t, err)
	app := newGateApp(t, g)

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{200, 200, 429, 429}, statuses)
}

func TestGate_ClientKeySeparatesCallers(t *testing.T) {
	g, err := NewGate(NewMemoryCounter(), ClientKey(), 1, time.Minute, zap.NewNop(), nil)
	require.NoError(t, err)

	// Trust the forwarded header so tests can vary the caller IP
	app := fiber.New(fiber.Config{ProxyHeader: "X-Forwarded-For"})
	app.Use(g.Handler())
	app.Get("/notes", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	// A different caller still has budget
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestGate_CounterFailureIsServerError(t *testing.T) {
	g, err := NewGate(failingCounter{}, GlobalKey(), 100, time.Minute, zap.NewNop(), nil)
	require.NoError(t, err)
	app := newGateApp(t, g)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGate_RejectionMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGate(NewMemoryCounter(), GlobalKey(), 1, time.Minute, zap.NewNop(), reg)
	require.NoError(t, err)
	app := newGateApp(t, g)

	for i := 0; i < 3; i++ {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(g.rejected))
}

func TestKeyFuncForScope(t *testing.T) {
	app := fiber.New()

	var globalKey, unknownKey, clientKey string
	app.Get("/k", func(c *fiber.Ctx) error {
		globalKey = KeyFuncForScope("global")(c)
		unknownKey = KeyFuncForScope("unknown")(c)
		clientKey = KeyFuncForScope("client")(c)
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/k", nil))
	require.NoError(t, err)

	assert.Equal(t, "ratelimit:global", globalKey)
	assert.Equal(t, "ratelimit:global", unknownKey)
	assert.Contains(t, clientKey, "ratelimit:ip:")
}
