package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pickupwatch/pickupwatch/internal/fulfillment"
	"github.com/pickupwatch/pickupwatch/internal/monitor"
)

type stubSource struct {
	st monitor.Status
}

func (s stubSource) Status() monitor.Status { return s.st }

func TestHealthz(t *testing.T) {
	srv := NewServer(stubSource{}, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusReturnsSnapshot(t *testing.T) {
	src := stubSource{st: monitor.Status{
		CyclesRun:     4,
		FailedCycles:  1,
		Notifications: 1,
		LastCycleAt:   time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		LastSnapshot: &fulfillment.Snapshot{
			Available: true,
			Stores: []fulfillment.StoreStatus{
				{Name: "Nashua", Number: "R354", Parts: map[string]string{"MFXG4LL/A": "available"}},
			},
		},
	}}
	srv := NewServer(src, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got monitor.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(4), got.CyclesRun)
	require.NotNil(t, got.LastSnapshot)
	assert.True(t, got.LastSnapshot.Available)
	assert.Equal(t, "R354", got.LastSnapshot.Stores[0].Number)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(stubSource{}, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
