package service

import (
	"context"

	"londonpark/internal/domain"
	"londonpark/internal/events"
	"londonpark/internal/models"

	"github.com/rs/zerolog"
)

// UserService handles self-service account registration. Authentication and
// session issuance live outside the core; this only validates and submits.
type UserService struct {
	boundary domain.Boundary
	eventBus domain.EventPublisher
	journal  domain.Journal
	logger   *zerolog.Logger
}

func NewUserService(boundary domain.Boundary, eventBus domain.EventPublisher, journal domain.Journal, logger *zerolog.Logger) *UserService {
	return &UserService{
		boundary: boundary,
		eventBus: eventBus,
		journal:  journal,
		logger:   logger,
	}
}

// Register creates an account through the public registration endpoint.
// All fields are required; a duplicate email comes back as the boundary's
// own message, verbatim.
func (s *UserService) Register(ctx context.Context, name, email, password string) error {
	if name == "" {
		return requiredField("name")
	}
	if email == "" {
		return requiredField("email")
	}
	if password == "" {
		return requiredField("password")
	}

	err := s.boundary.Register(ctx, models.User{Name: name, Email: email, Password: password})
	s.record(ctx, err)
	if err != nil {
		return err
	}

	if s.eventBus != nil {
		payload := events.MutationEventPayload{Kind: models.KindUsers, Op: "register"}
		if pubErr := s.eventBus.PublishJSON(events.EventUserRegistered, payload); pubErr != nil {
			s.logger.Error().Err(pubErr).Msg("publish event error")
		}
	}

	return nil
}

func (s *UserService) record(ctx context.Context, opErr error) {
	if s.journal == nil {
		return
	}

	outcome, message := journalOutcome(opErr)
	entry := &models.JournalEntry{
		Actor:   models.RoleUser,
		Kind:    models.KindUsers,
		Op:      "register",
		Outcome: outcome,
		Message: message,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Msg("journal write failed")
	}
}
