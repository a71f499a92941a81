package models

import "time"

type EntryType string

const (
	EntryDeveloping EntryType = "developing"
	EntryTesting    EntryType = "testing"
	EntryReturned   EntryType = "returned"
	EntryUnplanned  EntryType = "unplanned"
)

// ProductionEntry is one contiguous open/close interval of billable work
// logged against a case. ClosedAt is nil while the entry is still open.
type ProductionEntry struct {
	Sequence      int        `json:"sequence"`
	Type          EntryType  `json:"type"`
	OpenedAt      time.Time  `json:"openedAt"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
	OwnerUserID   string     `json:"ownerUserId"`
	OwnerUserName string     `json:"ownerUserName"`
}

func (e *ProductionEntry) IsOpen() bool {
	return e.ClosedAt == nil
}

type TimeTotals struct {
	EstimatedMinutes int `json:"estimatedMinutes"`
	RealizedMinutes  int `json:"realizedMinutes"`
}

// CaseSnapshot is the authoritative, server-fetched state of a case.
// The backend guarantees at most one open production entry per case.
type CaseSnapshot struct {
	CaseID            string             `json:"caseId"`
	StatusType        string             `json:"statusType"`
	Unplanned         bool               `json:"unplanned"`
	TimeTotals        TimeTotals         `json:"timeTotals"`
	ProductionEntries []*ProductionEntry `json:"productionEntries"`
}

// OpenEntry returns the currently open production entry, or nil.
func (c *CaseSnapshot) OpenEntry() *ProductionEntry {
	for _, e := range c.ProductionEntries {
		if e.IsOpen() {
			return e
		}
	}
	return nil
}

// RemainingMinutes is clamped at zero, never negative.
func (c *CaseSnapshot) RemainingMinutes() int {
	remaining := c.TimeTotals.EstimatedMinutes - c.TimeTotals.RealizedMinutes
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *CaseSnapshot) OverBudget() bool {
	return c.TimeTotals.RealizedMinutes > c.TimeTotals.EstimatedMinutes
}

// StartAllowed mirrors the backend rule: a case without an estimate may
// only be timed when it is flagged unplanned. The server stays the final
// authority, this only drives the pre-flight control state.
func (c *CaseSnapshot) StartAllowed() bool {
	return c.TimeTotals.EstimatedMinutes > 0 || c.Unplanned
}
