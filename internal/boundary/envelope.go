package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTransportCorruption marks a boundary response that could not be
// interpreted at all: network failure, timeout, or a body that is not valid
// JSON (the service is known to leak diagnostic text into responses). It is
// distinct from a well-formed failure and is never auto-retried.
var ErrTransportCorruption = errors.New("boundary transport corruption")

// DomainError is a well-formed rejection from the boundary. The message is
// surfaced to the caller verbatim.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Envelope is the boundary's response shape. Collection payloads arrive
// under an endpoint-specific key; legacy endpoints omit status entirely and
// are treated as success when the body parses.
type Envelope struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Data     []map[string]any  `json:"data"`
	Events   []map[string]any  `json:"events"`
	Bookings []map[string]any  `json:"bookings"`
	Tickets  []map[string]any  `json:"tickets"`
	Raw      json.RawMessage   `json:"-"`
}

const statusSuccess = "success"

// decodeEnvelope turns a raw body into the tagged outcome: a parsed envelope
// on success, *DomainError on a well-formed rejection, ErrTransportCorruption
// on noise.
func decodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransportCorruption, truncate(body, 200))
	}
	env.Raw = append(json.RawMessage(nil), body...)

	if env.Status != "" && env.Status != statusSuccess {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, &DomainError{Message: msg}
	}
	return &env, nil
}

// Records returns the first populated collection key. The boundary is not
// consistent about which one it uses.
func (e *Envelope) Records() []map[string]any {
	switch {
	case e.Data != nil:
		return e.Data
	case e.Events != nil:
		return e.Events
	case e.Bookings != nil:
		return e.Bookings
	case e.Tickets != nil:
		return e.Tickets
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
