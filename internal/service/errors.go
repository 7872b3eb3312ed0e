package service

import (
	"errors"
	"fmt"

	"londonpark/internal/boundary"
	"londonpark/internal/models"
)

// Rule violations from the booking engine. All are local: a violated rule
// never reaches the boundary.
var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrMissingEvidence  = errors.New("adult verification evidence is required")
	ErrQuantityExceeded = errors.New("quantity exceeds the event ceiling")
	ErrInvalidSeatType  = errors.New("unknown seat type")
	ErrBookingPending   = errors.New("an identical booking is already awaiting confirmation")
)

// ErrConfirmationNotFound means a delete confirmation token was never
// issued, already consumed, or expired.
var ErrConfirmationNotFound = errors.New("delete confirmation missing or expired")

// ValidationError reports a missing or malformed field caught before
// submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func requiredField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required"}
}

// journalOutcome maps an operation result onto the journal taxonomy.
func journalOutcome(err error) (string, string) {
	if err == nil {
		return models.OutcomeOK, ""
	}
	if errors.Is(err, boundary.ErrTransportCorruption) {
		return models.OutcomeFailed, "transport corruption"
	}
	var domainErr *boundary.DomainError
	if errors.As(err, &domainErr) {
		return models.OutcomeRejected, domainErr.Message
	}
	return models.OutcomeFailed, err.Error()
}
