package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(h gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.GET("/", h)
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	return rr
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, component.Health{Name: string(s), Status: s})
		}
		return out
	}
}

func TestHealth(t *testing.T) {
	rr := get(Health("recordkit", checker(component.StatusHealthy, component.StatusDegraded)))
	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status     component.HealthStatus `json:"status"`
		Service    string                 `json:"service"`
		Components []component.Health     `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, component.StatusDegraded, body.Status)
	assert.Equal(t, "recordkit", body.Service)
	assert.Len(t, body.Components, 2)

	rr = get(Health("recordkit", checker(component.StatusHealthy, component.StatusUnhealthy)))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReady(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(Ready(nil)).Code)
	assert.Equal(t, http.StatusOK, get(Ready(checker(component.StatusDegraded))).Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(Ready(checker(component.StatusUnhealthy))).Code)
}

func TestMessage(t *testing.T) {
	rr := get(Message("ok"))
	assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
}

func TestInfo(t *testing.T) {
	rr := get(Info("recordkit"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "recordkit", body["service"])
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "uptime")
}
