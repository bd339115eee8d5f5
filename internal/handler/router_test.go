package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnroot/learnroot-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthReportsOK(t *testing.T) {
	r := gin.New()
	reg := &Registry{}
	reg.Register(r, "/api", &service.AuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Uptime monitors match the literal "OK".
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Learnroot API is running", body["message"])
}

func TestUnknownRouteReturns404(t *testing.T) {
	r := gin.New()
	reg := &Registry{}
	reg.Register(r, "/api", &service.AuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}
