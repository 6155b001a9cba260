package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, remoteAddr string, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	c.Request = req
	return c
}

func TestClientIPHeaderPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded chain keeps first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"garbage forwarded falls through", map[string]string{"X-Forwarded-For": "not-an-ip", "X-Real-Ip": "198.51.100.4"}, "198.51.100.4"},
		{"cloudflare header as last resort", map[string]string{"CF-Connecting-IP": "192.0.2.9"}, "192.0.2.9"},
		{"no headers uses socket address", nil, "10.1.2.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newContext(t, "10.1.2.3:52100", tc.headers)
			require.Equal(t, tc.want, clientIP(c))
		})
	}
}

func TestGetIPFromContextPrefersStoredValue(t *testing.T) {
	c := newContext(t, "10.1.2.3:52100", nil)
	c.Set(clientIPKey, "203.0.113.50")
	require.Equal(t, "203.0.113.50", GetIPFromContext(c))

	// without the middleware having run it resolves on the spot
	c = newContext(t, "10.1.2.3:52100", nil)
	require.Equal(t, "10.1.2.3", GetIPFromContext(c))
}
