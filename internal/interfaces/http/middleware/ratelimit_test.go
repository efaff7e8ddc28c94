package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func fixedLimiter(limit int, period time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(limit, period)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, now := fixedLimiter(2, time.Minute)

	ok, remaining := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining = rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _ = rl.Allow("10.0.0.1")
	assert.False(t, ok)

	*now = now.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, rl.RetryAfter("10.0.0.1"))

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "keys are independent")

	*now = now.Add(time.Minute)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok, "a new window starts after the period")
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl, now := fixedLimiter(5, time.Minute)
	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.Len())

	*now = now.Add(3 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimit_Middleware(t *testing.T) {
	rl, _ := fixedLimiter(1, time.Minute)
	router := gin.New()
	router.POST("/login", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
}
