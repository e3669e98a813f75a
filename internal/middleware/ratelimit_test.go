package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestLimiterBlocksOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewLimiter(3, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	// other clients keep their own bucket
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
}

func TestLimiterKeysOnAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewLimiter(2, time.Minute)
	r := gin.New()
	var userID uint
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.Use(RateLimit(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	userID = 7
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.3"), "same account, new IP")

	userID = 8
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"), "different account, shared IP")
}

func TestLimiterWindowResets(t *testing.T) {
	l := NewLimiter(1, 30*time.Millisecond)
	assert.True(t, l.allow("k"))
	assert.False(t, l.allow("k"))
	time.Sleep(40 * time.Millisecond)
	assert.True(t, l.allow("k"))
}
