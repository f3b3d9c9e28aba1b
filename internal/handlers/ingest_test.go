package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostwatch/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func fullPayload() models.TelemetryPayload {
	return models.TelemetryPayload{
		CPU:    floatPtr(37.5),
		Memory: floatPtr(58.1),
		NewProcesses: []models.ProcessEntry{
			{Pid: 4242, Name: "fresh-proc", User: "alice"},
		},
		PrivilegedProcesses: []models.ProcessEntry{
			{Pid: 1, Name: "init", User: "root"},
		},
	}
}

func TestIngestRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/logs", fullPayload(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, w.Body.String())

	token := login(t, r)

	stats := decodeRows(t, doJSON(r, http.MethodGet, "/api/system_stats", nil, token))
	require.Len(t, stats, 1)
	assert.Equal(t, 37.5, stats[0]["cpu"])
	assert.Equal(t, 58.1, stats[0]["memory"])
	assert.Equal(t, "10.9.8.7", stats[0]["ip"])
	assert.NotEmpty(t, stats[0]["timestamp"])

	newProcs := decodeRows(t, doJSON(r, http.MethodGet, "/api/new_processes", nil, token))
	require.Len(t, newProcs, 1)
	assert.Equal(t, float64(4242), newProcs[0]["pid"])
	assert.Equal(t, "fresh-proc", newProcs[0]["name"])
	assert.Equal(t, "alice", newProcs[0]["user"])
	assert.Equal(t, "10.9.8.7", newProcs[0]["ip"])

	privProcs := decodeRows(t, doJSON(r, http.MethodGet, "/api/privileged_processes", nil, token))
	require.Len(t, privProcs, 1)
	assert.Equal(t, "init", privProcs[0]["name"])
	assert.Equal(t, "root", privProcs[0]["user"])
}

func TestIngestNoDedup(t *testing.T) {
	r, db := newTestRouter(t)

	// identical payloads append two distinct rows, there is no dedup key
	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/api/logs", fullPayload(), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, db.Model(&models.SystemStat{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	require.NoError(t, db.Model(&models.NewProcess{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIngestRejectsUnparseableBody(t *testing.T) {
	r, db := newTestRouter(t)

	w := doRaw(r, http.MethodPost, "/api/logs", "this is not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.SystemStat{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIngestRejectsMalformedProcessEntry(t *testing.T) {
	r, db := newTestRouter(t)

	// pid must be a number; a bad entry fails the whole request before
	// any row is written
	w := doRaw(r, http.MethodPost, "/api/logs",
		`{"cpu": 1.0, "memory": 2.0, "new_processes": [{"pid": "oops", "name": "x", "user": "y"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.SystemStat{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIngestPartialPayloadWritesOnlyItsStreams(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/logs", models.TelemetryPayload{
		CPU:    floatPtr(10),
		Memory: floatPtr(20),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats, procs int64
	require.NoError(t, db.Model(&models.SystemStat{}).Count(&stats).Error)
	require.NoError(t, db.Model(&models.NewProcess{}).Count(&procs).Error)
	assert.Equal(t, int64(1), stats)
	assert.Zero(t, procs)
}

func TestIngestCPUWithoutMemoryWritesNoStats(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/logs", models.TelemetryPayload{
		CPU: floatPtr(10),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats int64
	require.NoError(t, db.Model(&models.SystemStat{}).Count(&stats).Error)
	assert.Zero(t, stats)
}
