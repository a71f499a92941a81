package models

import "time"

// ActiveTimerRecord is the client-local belief about which case currently
// has an open production entry. At most one record exists process-wide.
type ActiveTimerRecord struct {
	CaseID    string    `json:"caseId"`
	StartedAt time.Time `json:"startedAt"`
}

// Valid reports whether both required fields are present. A record failing
// this check is treated the same as no record at all.
func (r *ActiveTimerRecord) Valid() bool {
	return r != nil && r.CaseID != "" && !r.StartedAt.IsZero()
}

func (r *ActiveTimerRecord) Equal(other *ActiveTimerRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.CaseID == other.CaseID && r.StartedAt.Equal(other.StartedAt)
}
