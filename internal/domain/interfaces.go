package domain

import (
	"context"

	"londonpark/internal/models"
)

// Boundary is the seam to the external persistence service. Implementations
// return raw records; normalization happens in the caller.
type Boundary interface {
	GetEvents(ctx context.Context, session models.Session) ([]map[string]any, error)
	GetUserBookings(ctx context.Context, session models.Session, userID int64) ([]map[string]any, error)
	BookTicket(ctx context.Context, session models.Session, req models.BookingRequest) error
	Register(ctx context.Context, user models.User) error

	AdminListUsers(ctx context.Context, session models.Session) ([]map[string]any, error)
	AdminListEvents(ctx context.Context, session models.Session) ([]map[string]any, error)
	AdminListBookings(ctx context.Context, session models.Session) ([]map[string]any, error)
	AdminSaveUser(ctx context.Context, session models.Session, mode models.Mode, user models.User) error
	AdminSaveEvent(ctx context.Context, session models.Session, mode models.Mode, event models.Event) error
	AdminDeleteUser(ctx context.Context, session models.Session, id int64) error
	AdminDeleteEvent(ctx context.Context, session models.Session, id int64) error
	AdminDeleteBooking(ctx context.Context, session models.Session, id int64) error

	InvalidateEventsCache(ctx context.Context)
}

// ConfirmationRepository stores pending delete confirmations until the
// caller acknowledges or they expire.
type ConfirmationRepository interface {
	Put(ctx context.Context, pending *models.PendingDelete) error
	Get(ctx context.Context, token string) (*models.PendingDelete, error)
	Delete(ctx context.Context, token string) error
}

// EventPublisher lets services emit domain events without caring who
// listens.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Journal is the audit log for mutation attempts. Recording failures must
// never fail the mutation itself.
type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
}
