package models

import "time"

type TransitionKind string

const (
	TransitionStart    TransitionKind = "start"
	TransitionStop     TransitionKind = "stop"
	TransitionDismiss  TransitionKind = "dismiss"
	TransitionFinalize TransitionKind = "finalize"
)

// TransitionEvent records one committed timer transition for the local
// journal. Events are never sent to the backend.
type TransitionEvent struct {
	ID     string         `json:"id"`
	CaseID string         `json:"caseId"`
	Kind   TransitionKind `json:"kind"`
	At     time.Time      `json:"at"`
}
