package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"ctd/internal/controller"
	"ctd/internal/journal/interfaces"
)

type HealthController struct {
	timer     controller.ControllerInterface
	journal   interfaces.JournalInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	TimerState    string  `json:"timer_state"`
	ActiveCase    string  `json:"active_case,omitempty"`
	JournalEvents int     `json:"journal_events"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	view := hc.timer.View()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		TimerState:    view.State.String(),
		ActiveCase:    view.CaseID,
		JournalEvents: hc.journal.Size(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(timer controller.ControllerInterface, jrnl interfaces.JournalInterface) *HealthController {
	return &HealthController{
		timer:     timer,
		journal:   jrnl,
		startTime: time.Now(),
	}
}
