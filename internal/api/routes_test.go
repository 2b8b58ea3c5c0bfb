package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	r := setupAPITest(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "primedrive-api", resp["service"])

	_, err := time.Parse(time.RFC3339, resp["timestamp"])
	assert.NoError(t, err)
}
