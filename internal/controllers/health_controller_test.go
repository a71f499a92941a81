package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctd/internal/controller"
	"ctd/internal/testutil"
)

func TestHealth_ReportsTimerState(t *testing.T) {
	timer := &mockTimer{view: controller.View{State: controller.StatePaused, CaseID: "42"}}
	jrnl := &testutil.MockJournal{}
	jrnl.Record("start", "42")
	hc := NewHealthController(timer, jrnl)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "paused", body["timer_state"])
	assert.Equal(t, "42", body["active_case"])
	assert.Equal(t, float64(1), body["journal_events"])
	assert.Contains(t, body, "uptime")
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&mockTimer{}, &testutil.MockJournal{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
