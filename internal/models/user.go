package models

// User is the canonical account record. Password is write-only: it is set on
// registration and admin create/update payloads and never present on reads
// from the boundary.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
