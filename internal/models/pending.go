package models

import "time"

// PendingDelete is an issued-but-unacknowledged delete confirmation. The
// destructive request is only sent once the caller presents the token back.
type PendingDelete struct {
	Token       string    `json:"token"`
	Kind        string    `json:"kind"`
	EntityID    int64     `json:"entity_id"`
	RequestedAt time.Time `json:"requested_at"`
}
