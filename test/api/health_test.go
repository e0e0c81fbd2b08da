package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	resp := makeRequest("GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data["ok"])
	assert.Equal(t, "up", resp.Data["db"])
	assert.NotEmpty(t, resp.GetString("time"))
}

func TestMetricsEndpoint(t *testing.T) {
	makeRequest("GET", "/health", nil, "")

	resp := makeRequest("GET", "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.RawData, "e2e_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	resp := makeRequest("GET", "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
