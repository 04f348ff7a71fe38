package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	start := time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC)
	now := start

	h := NewSystemHandler(ServiceInfo{
		Name:        "popstats",
		Version:     "1.0.0",
		Sources:     []string{"static", "restcountries"},
		MergePolicy: "db_wins",
	})
	h.started = start
	h.now = func() time.Time { return now }
	now = start.Add(90*time.Minute + 400*time.Millisecond)

	c, w := newTestContext()
	h.GetSystemInfo(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "popstats", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.Equal(t, "1h30m0s", data["uptime"])
	assert.Equal(t, []any{"static", "restcountries"}, data["sources"])
	assert.Equal(t, "db_wins", data["merge_policy"])
	assert.Equal(t, false, data["concurrent_sources"])
}

func TestSystemHandler_GetSystemInfo_NoSources(t *testing.T) {
	h := NewSystemHandler(ServiceInfo{Name: "popstats"})

	c, w := newTestContext()
	h.GetSystemInfo(c)

	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, []any{}, data["sources"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler(ServiceInfo{Name: "popstats"})
	h.now = func() time.Time { return time.Date(2026, 1, 23, 13, 0, 0, 0, time.FixedZone("CET", 3600)) }

	c, w := newTestContext()
	h.Ping(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
	assert.Equal(t, "2026-01-23T12:00:00Z", data["timestamp"])
}
