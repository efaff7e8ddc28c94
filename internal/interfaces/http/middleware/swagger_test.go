package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func serveSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		wantStatus int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, "127.0.0.1:5000", http.StatusNotFound},
		{"enabled without allow-list", SwaggerConfig{Enabled: true}, "203.0.113.9:5000", http.StatusOK},
		{"exact ip allowed", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, "127.0.0.1:5000", http.StatusOK},
		{"cidr allowed", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.20.30.40:5000", http.StatusOK},
		{"outside allow-list", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "192.168.1.5:5000", http.StatusForbidden},
		{"only invalid entries", SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip", "300.0.0.0/8"}}, "127.0.0.1:5000", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(swaggerRouter(tt.cfg), tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNotFound {
				assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
			}
		})
	}
}
