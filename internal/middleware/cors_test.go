package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRequest(t *testing.T, allowedOrigins, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(allowedOrigins))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSDefaultAcceptsAnyOrigin(t *testing.T) {
	w := corsRequest(t, "*", http.MethodGet, "https://pos.example.com")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowListEchoesMatchingOrigin(t *testing.T) {
	origins := "https://pos.example.com, https://admin.example.com"

	w := corsRequest(t, origins, http.MethodGet, "https://admin.example.com")
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(t, origins, http.MethodGet, "https://evil.example.net")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := corsRequest(t, "*", http.MethodOptions, "https://pos.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSExposesReceiptDownloadHeaders(t *testing.T) {
	w := corsRequest(t, "*", http.MethodGet, "https://pos.example.com")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}
