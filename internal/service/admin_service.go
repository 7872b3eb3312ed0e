package service

import (
	"context"
	"sync"
	"time"

	"londonpark/internal/domain"
	"londonpark/internal/events"
	"londonpark/internal/metrics"
	"londonpark/internal/models"
	"londonpark/internal/normalize"
	"londonpark/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminService coordinates create/update/delete flows for the privileged
// console. Every successful mutation is followed by a refetch of the
// mutated kind before the operation is reported complete; the per-kind
// guard serializes mutations so a stale refetch can never clobber a newer
// change.
type AdminService struct {
	boundary    domain.Boundary
	collections *repository.Collections
	confirms    domain.ConfirmationRepository
	eventBus    domain.EventPublisher
	journal     domain.Journal
	confirmTTL  time.Duration
	logger      *zerolog.Logger

	guards map[string]*sync.Mutex
}

func NewAdminService(boundary domain.Boundary, collections *repository.Collections, confirms domain.ConfirmationRepository, eventBus domain.EventPublisher, journal domain.Journal, confirmTTL time.Duration, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		boundary:    boundary,
		collections: collections,
		confirms:    confirms,
		eventBus:    eventBus,
		journal:     journal,
		confirmTTL:  confirmTTL,
		logger:      logger,
		guards: map[string]*sync.Mutex{
			models.KindUsers:    {},
			models.KindEvents:   {},
			models.KindBookings: {},
		},
	}
}

// Users returns the current normalized users snapshot.
func (s *AdminService) Users() []models.User {
	return s.collections.Users()
}

// Events returns the current normalized events snapshot.
func (s *AdminService) Events() []models.Event {
	return s.collections.Events()
}

// Bookings returns the current bookings snapshot with display names
// resolved against the user and event snapshots. Unresolvable references
// stay blank rather than failing the row.
func (s *AdminService) Bookings() []models.Booking {
	bookings := s.collections.Bookings()
	for i, booking := range bookings {
		if booking.UserName == "" {
			if user, ok := s.collections.UserByID(booking.UserID); ok {
				bookings[i].UserName = user.Name
			}
		}
		if booking.EventName == "" {
			if event, ok := s.collections.EventByID(booking.EventID); ok {
				bookings[i].EventName = event.Name
			}
		}
	}
	return bookings
}

// RefreshAll loads every collection. Used at console start and after
// login.
func (s *AdminService) RefreshAll(ctx context.Context, session models.Session) error {
	if err := s.RefreshUsers(ctx, session); err != nil {
		return err
	}
	if err := s.RefreshEvents(ctx, session); err != nil {
		return err
	}
	return s.RefreshBookings(ctx, session)
}

func (s *AdminService) RefreshUsers(ctx context.Context, session models.Session) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}
	s.guards[models.KindUsers].Lock()
	defer s.guards[models.KindUsers].Unlock()
	return s.refetchUsers(ctx, session)
}

func (s *AdminService) RefreshEvents(ctx context.Context, session models.Session) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}
	s.guards[models.KindEvents].Lock()
	defer s.guards[models.KindEvents].Unlock()
	return s.refetchEvents(ctx, session)
}

func (s *AdminService) RefreshBookings(ctx context.Context, session models.Session) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}
	s.guards[models.KindBookings].Lock()
	defer s.guards[models.KindBookings].Unlock()
	return s.refetchBookings(ctx, session)
}

// SaveUser creates or edits a user according to the explicit mode. Empty
// password on edit means "leave unchanged"; the boundary adapter omits the
// field entirely in that case.
func (s *AdminService) SaveUser(ctx context.Context, session models.Session, mode models.Mode, user models.User) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}
	if err := validateUser(mode, user); err != nil {
		return err
	}

	s.guards[models.KindUsers].Lock()
	defer s.guards[models.KindUsers].Unlock()

	err := s.boundary.AdminSaveUser(ctx, session, mode, user)
	s.record(ctx, models.KindUsers, string(mode), user.ID, err)
	if err != nil {
		return err
	}

	metrics.IncAdminMutation(models.KindUsers, string(mode))
	s.publishMutation(events.EventUserSaved, models.KindUsers, string(mode), user.ID)

	return s.refetchUsers(ctx, session)
}

// SaveEvent creates or edits an event according to the explicit mode.
func (s *AdminService) SaveEvent(ctx context.Context, session models.Session, mode models.Mode, event models.Event) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}
	if err := validateEvent(mode, event); err != nil {
		return err
	}

	s.guards[models.KindEvents].Lock()
	defer s.guards[models.KindEvents].Unlock()

	err := s.boundary.AdminSaveEvent(ctx, session, mode, event)
	s.record(ctx, models.KindEvents, string(mode), event.ID, err)
	if err != nil {
		return err
	}

	metrics.IncAdminMutation(models.KindEvents, string(mode))
	s.publishMutation(events.EventEventSaved, models.KindEvents, string(mode), event.ID)

	s.boundary.InvalidateEventsCache(ctx)
	return s.refetchEvents(ctx, session)
}

// RequestDelete starts the two-step delete protocol: it parks a pending
// confirmation and returns the token the caller must present back. No
// destructive request is sent here.
func (s *AdminService) RequestDelete(ctx context.Context, session models.Session, kind string, id int64) (string, error) {
	if err := session.Require(models.RoleAdmin); err != nil {
		return "", err
	}
	if _, ok := s.guards[kind]; !ok {
		return "", &ValidationError{Field: "kind", Reason: "unknown entity kind"}
	}
	if id <= 0 {
		return "", &ValidationError{Field: "id", Reason: "required"}
	}

	pending := &models.PendingDelete{
		Token:       uuid.NewString(),
		Kind:        kind,
		EntityID:    id,
		RequestedAt: time.Now(),
	}
	if err := s.confirms.Put(ctx, pending); err != nil {
		return "", err
	}
	return pending.Token, nil
}

// ConfirmDelete acknowledges a pending confirmation and issues the
// destructive request. The token is consumed once the request has gone
// out, success or not; a failed delete needs a fresh request.
func (s *AdminService) ConfirmDelete(ctx context.Context, session models.Session, token string) error {
	if err := session.Require(models.RoleAdmin); err != nil {
		return err
	}

	pending, err := s.confirms.Get(ctx, token)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrConfirmationNotFound
	}

	s.guards[pending.Kind].Lock()
	defer s.guards[pending.Kind].Unlock()

	var deleteErr error
	switch pending.Kind {
	case models.KindUsers:
		deleteErr = s.boundary.AdminDeleteUser(ctx, session, pending.EntityID)
	case models.KindEvents:
		deleteErr = s.boundary.AdminDeleteEvent(ctx, session, pending.EntityID)
	case models.KindBookings:
		deleteErr = s.boundary.AdminDeleteBooking(ctx, session, pending.EntityID)
	}

	if err := s.confirms.Delete(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("pending delete cleanup failed")
	}

	s.record(ctx, pending.Kind, "delete", pending.EntityID, deleteErr)
	if deleteErr != nil {
		return deleteErr
	}

	metrics.IncAdminMutation(pending.Kind, "delete")

	switch pending.Kind {
	case models.KindUsers:
		s.publishMutation(events.EventUserDeleted, pending.Kind, "delete", pending.EntityID)
		return s.refetchUsers(ctx, session)
	case models.KindEvents:
		s.publishMutation(events.EventEventDeleted, pending.Kind, "delete", pending.EntityID)
		s.boundary.InvalidateEventsCache(ctx)
		return s.refetchEvents(ctx, session)
	default:
		s.publishMutation(events.EventBookingDeleted, pending.Kind, "delete", pending.EntityID)
		return s.refetchBookings(ctx, session)
	}
}

func validateUser(mode models.Mode, user models.User) error {
	if user.Name == "" {
		return requiredField("name")
	}
	if user.Email == "" {
		return requiredField("email")
	}
	if mode == models.ModeCreate && user.Password == "" {
		return requiredField("password")
	}
	if mode == models.ModeEdit && user.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "edit requires an existing id"}
	}
	return nil
}

func validateEvent(mode models.Mode, event models.Event) error {
	if event.Name == "" {
		return requiredField("name")
	}
	if event.Date == "" {
		return requiredField("date")
	}
	if event.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must be non-negative"}
	}
	if mode == models.ModeEdit && event.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "edit requires an existing id"}
	}
	return nil
}

// refetch helpers assume the kind's guard is held.

func (s *AdminService) refetchUsers(ctx context.Context, session models.Session) error {
	records, err := s.boundary.AdminListUsers(ctx, session)
	if err != nil {
		return err
	}
	users, anomalies := normalize.Users(records)
	s.logAnomalies(models.KindUsers, anomalies)
	s.collections.ReplaceUsers(users)
	return nil
}

func (s *AdminService) refetchEvents(ctx context.Context, session models.Session) error {
	records, err := s.boundary.AdminListEvents(ctx, session)
	if err != nil {
		return err
	}
	eventList, anomalies := normalize.Events(records)
	s.logAnomalies(models.KindEvents, anomalies)
	s.collections.ReplaceEvents(eventList)
	return nil
}

func (s *AdminService) refetchBookings(ctx context.Context, session models.Session) error {
	records, err := s.boundary.AdminListBookings(ctx, session)
	if err != nil {
		return err
	}
	bookings, anomalies := normalize.Bookings(records)
	s.logAnomalies(models.KindBookings, anomalies)
	s.collections.ReconcileBookings(bookings)
	return nil
}

func (s *AdminService) record(ctx context.Context, kind, op string, entityID int64, opErr error) {
	if s.journal == nil {
		return
	}

	outcome, message := journalOutcome(opErr)
	entry := &models.JournalEntry{
		Actor:    models.RoleAdmin,
		Kind:     kind,
		Op:       op,
		EntityID: entityID,
		Outcome:  outcome,
		Message:  message,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Str("op", op).Msg("journal write failed")
	}
}

func (s *AdminService) publishMutation(eventType, kind, op string, entityID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.MutationEventPayload{
		Kind:     kind,
		Op:       op,
		EntityID: entityID,
		Actor:    models.RoleAdmin,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (s *AdminService) logAnomalies(kind string, anomalies []normalize.Anomaly) {
	for _, anomaly := range anomalies {
		s.logger.Warn().
			Str("kind", kind).
			Str("field", anomaly.Field).
			Str("reason", anomaly.Reason).
			Msg("normalization anomaly")
	}
}
