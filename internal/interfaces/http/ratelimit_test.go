package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_AllowRespetaRafaga(t *testing.T) {
	l := NewIPRateLimiter(60, 2)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "la ráfaga de 2 ya se consumió")
	assert.True(t, l.Allow("10.0.0.2"), "cada IP tiene su propio bucket")

	// 60/min = 1 token por segundo.
	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_CleanupEliminaInactivos(t *testing.T) {
	l := NewIPRateLimiter(10, 1)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	l.Allow("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Cleanup(), "solo sobrevive el visitante visto hace menos de 10 minutos")
}

func TestIPRateLimiter_Handler429(t *testing.T) {
	var rejected []string
	l := NewIPRateLimiter(1, 1).OnReject(func(ip string) { rejected = append(rejected, ip) })

	app := fiber.New()
	app.Post("/login", l.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Len(t, rejected, 1)
}
