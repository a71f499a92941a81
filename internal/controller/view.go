package controller

import (
	"time"

	json "github.com/goccy/go-json"
)

type State int

const (
	StateIdle State = iota
	StateResolving
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// View is the derived presentation state. It is recomputed on every
// change, never stored.
type View struct {
	State            State     `json:"state"`
	CaseID           string    `json:"caseId,omitempty"`
	StartedAt        time.Time `json:"startedAt"`
	ElapsedSeconds   int       `json:"elapsedSeconds"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	RealizedMinutes  int       `json:"realizedMinutes"`
	RemainingMinutes int       `json:"remainingMinutes"`
	OverBudget       bool      `json:"overBudget"`
	CanStart         bool      `json:"canStart"`
	CanStop          bool      `json:"canStop"`
	ActionInFlight   bool      `json:"actionInFlight"`
}
