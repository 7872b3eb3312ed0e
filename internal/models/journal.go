package models

import "time"

// JournalEntry is one audited mutation attempt. Outcome is "ok", "rejected"
// or "failed"; Message carries the boundary's words when there are any.
type JournalEntry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Kind      string    `json:"kind"`
	Op        string    `json:"op"`
	EntityID  int64     `json:"entity_id"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
