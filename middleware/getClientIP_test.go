package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "forwarded chain uses first entry",
			remoteAddr: "10.0.0.9:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "real ip when no forwarded header",
			remoteAddr: "10.0.0.9:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.8"},
			want:       "203.0.113.8",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "10.0.0.9:1234",
			want:       "10.0.0.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "10.0.0.9",
			want:       "10.0.0.9",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
