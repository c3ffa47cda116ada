package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ipContext(remoteAddr string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = remoteAddr
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestGetClientIP(t *testing.T) {
	t.Run("first forwarded hop wins", func(t *testing.T) {
		c := ipContext("10.0.0.1:1234", map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.2",
		})
		assert.Equal(t, "203.0.113.7", getClientIP(c))
	})

	t.Run("empty forwarded entries are skipped", func(t *testing.T) {
		c := ipContext("10.0.0.1:1234", map[string]string{
			"X-Forwarded-For": " , 203.0.113.7",
		})
		assert.Equal(t, "203.0.113.7", getClientIP(c))
	})

	t.Run("real ip header", func(t *testing.T) {
		c := ipContext("10.0.0.1:1234", map[string]string{
			"X-Real-IP": "203.0.113.9",
		})
		assert.Equal(t, "203.0.113.9", getClientIP(c))
	})

	t.Run("socket address fallback strips the port", func(t *testing.T) {
		c := ipContext("192.0.2.4:5678", nil)
		assert.Equal(t, "192.0.2.4", getClientIP(c))
	})
}
