package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, path string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", path, nil)
	return c
}

func TestKeyByIPUsesResolvedIP(t *testing.T) {
	c := testContext(t, "/tasks")
	c.Set("real_ip", "203.0.113.7")

	require.Equal(t, "rl:ip:203.0.113.7", KeyByIP()(c))
}

func TestKeyByIPAndPathUsesResolvedIP(t *testing.T) {
	c := testContext(t, "/auth/login")
	c.Set("real_ip", "203.0.113.7")

	require.Equal(t, "rl:path:/auth/login:ip:203.0.113.7", KeyByIPAndPath()(c))
}

func TestKeyByIPFallsBackWithoutResolvedIP(t *testing.T) {
	c := testContext(t, "/tasks")
	c.Request.RemoteAddr = "198.51.100.4:1234"

	require.Equal(t, "rl:ip:198.51.100.4", KeyByIP()(c))
}

func TestKeyByUserID(t *testing.T) {
	c := testContext(t, "/tasks")
	c.Set(CtxUserIDKey, "user-123")

	require.Equal(t, "rl:user:user-123", KeyByUserID()(c))
}

func TestKeyByUserIDAnonymousFallsBackToIP(t *testing.T) {
	c := testContext(t, "/tasks")
	c.Set("real_ip", "203.0.113.7")

	require.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))
}

func TestRemainingAfterClampsAtZero(t *testing.T) {
	require.Equal(t, 9, remainingAfter(10, 1))
	require.Equal(t, 0, remainingAfter(10, 10))
	require.Equal(t, 0, remainingAfter(10, 11))
	require.Equal(t, 0, remainingAfter(10, 250))
}
