package service

import (
	"context"
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

// BookingService owns the booking rule engine and the user-facing submit
// path. Bookings are created only here; the admin path can only delete them.
type BookingService struct {
	boundary    domain.Boundary
	collections *repository.Collections
	eventBus    domain.EventPublisher
	journal     domain.Journal
	logger      *zerolog.Logger
}

func NewBookingService(boundary domain.Boundary, collections *repository.Collections, eventBus domain.EventPublisher, journal domain.Journal, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		boundary:    boundary,
		collections: collections,
		eventBus:    eventBus,
		journal:     journal,
		logger:      logger,
	}
}

// ProposeBooking validates an intent against the event's eligibility and
// capacity rules. Rules run in a fixed order and the first failing rule
// wins; nothing is mutated before success. Callers above may clamp the
// quantity in their forms, but the engine rejects out-of-range values
// outright so the rules stay authoritative regardless of caller discipline.
func (s *BookingService) ProposeBooking(userID int64, event models.Event, intent models.BookingIntent, prior []models.Booking) (models.BookingRequest, error) {
	quantity := intent.Quantity
	if quantity == 0 {
		quantity = models.DefaultQuantity
	}
	if quantity < 0 {
		return models.BookingRequest{}, s.violation(ErrInvalidQuantity)
	}

	if event.RequiresAdult && intent.AdultPhoto == "" {
		return models.BookingRequest{}, s.violation(ErrMissingEvidence)
	}

	if event.RequiresAdult && quantity > models.MaxAdultQuantity {
		return models.BookingRequest{}, s.violation(ErrQuantityExceeded)
	}
	if !event.RequiresAdult && quantity > models.MaxQuantity {
		return models.BookingRequest{}, s.violation(ErrQuantityExceeded)
	}

	seatType := intent.SeatType
	if seatType == "" {
		seatType = models.SeatWithoutTable
	}
	if !models.ValidSeatType(seatType) {
		return models.BookingRequest{}, s.violation(ErrInvalidSeatType)
	}

	// A tentative echo with the same shape means the prior submission has
	// not been confirmed by a refetch yet; accepting again would create a
	// duplicate row.
	for _, booking := range prior {
		if booking.Tentative() &&
			booking.UserID == userID &&
			booking.EventID == event.ID &&
			booking.Quantity == quantity &&
			booking.SeatType == seatType {
			return models.BookingRequest{}, s.violation(ErrBookingPending)
		}
	}

	req := models.BookingRequest{
		UserID:   userID,
		EventID:  event.ID,
		Quantity: quantity,
		SeatType: seatType,
	}
	if event.RequiresAdult {
		req.AdultPhoto = intent.AdultPhoto
	}
	return req, nil
}

// Book runs the full submit path: propose, send through the boundary, then
// append the optimistic echo. The echo is the one write to local state that
// skips the refetch round trip; RefreshBookings later reconciles it against
// the server-issued identifier.
func (s *BookingService) Book(ctx context.Context, session models.Session, userID int64, event models.Event, intent models.BookingIntent) (models.Booking, error) {
	if err := session.Require(models.RoleUser); err != nil {
		return models.Booking{}, err
	}

	req, err := s.ProposeBooking(userID, event, intent, s.userBookings(userID))
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.boundary.BookTicket(ctx, session, req); err != nil {
		s.record(ctx, session.Role, "create", event.ID, err)
		return models.Booking{}, err
	}

	echo := models.Booking{
		TempID:     uuid.NewString(),
		UserID:     req.UserID,
		EventID:    req.EventID,
		EventName:  event.Name,
		Quantity:   req.Quantity,
		SeatType:   req.SeatType,
		AdultPhoto: req.AdultPhoto,
		BookedAt:   time.Now().Format("2006-01-02 15:04:05"),
		State:      models.BookingStateTentative,
	}
	s.collections.AppendTentative(echo)

	s.record(ctx, session.Role, "create", event.ID, nil)
	s.publishBooking(events.EventBookingCreated, echo)

	return echo, nil
}

// RefreshEvents refetches and renormalizes the public events list.
func (s *BookingService) RefreshEvents(ctx context.Context, session models.Session) error {
	records, err := s.boundary.GetEvents(ctx, session)
	if err != nil {
		return err
	}

	eventList, anomalies := normalize.Events(records)
	s.logAnomalies(models.KindEvents, anomalies)
	s.collections.ReplaceEvents(eventList)
	return nil
}

// RefreshBookings refetches the user's booked tickets and reconciles any
// outstanding tentative echoes against the authoritative list.
func (s *BookingService) RefreshBookings(ctx context.Context, session models.Session, userID int64) error {
	records, err := s.boundary.GetUserBookings(ctx, session, userID)
	if err != nil {
		return err
	}

	bookings, anomalies := normalize.Bookings(records)
	s.logAnomalies(models.KindBookings, anomalies)
	s.collections.ReconcileBookings(bookings)
	return nil
}

// Events returns the current normalized events snapshot.
func (s *BookingService) Events() []models.Event {
	return s.collections.Events()
}

// Bookings returns the current normalized bookings snapshot.
func (s *BookingService) Bookings() []models.Booking {
	return s.collections.Bookings()
}

func (s *BookingService) userBookings(userID int64) []models.Booking {
	var out []models.Booking
	for _, booking := range s.collections.Bookings() {
		if booking.UserID == userID {
			out = append(out, booking)
		}
	}
	return out
}

func (s *BookingService) violation(err error) error {
	metrics.IncRuleViolation(ruleLabel(err))
	return err
}

func ruleLabel(err error) string {
	switch err {
	case ErrInvalidQuantity:
		return "invalid_quantity"
	case ErrMissingEvidence:
		return "missing_evidence"
	case ErrQuantityExceeded:
		return "quantity_exceeded"
	case ErrInvalidSeatType:
		return "invalid_seat_type"
	case ErrBookingPending:
		return "booking_pending"
	}
	return "unknown"
}

func (s *BookingService) record(ctx context.Context, actor, op string, entityID int64, opErr error) {
	if s.journal == nil {
		return
	}

	outcome, message := journalOutcome(opErr)
	entry := &models.JournalEntry{
		Actor:    actor,
		Kind:     models.KindBookings,
		Op:       op,
		EntityID: entityID,
		Outcome:  outcome,
		Message:  message,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("journal write failed")
	}
}

func (s *BookingService) publishBooking(eventType string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		TempID:    booking.TempID,
		UserID:    booking.UserID,
		EventID:   booking.EventID,
		EventName: booking.EventName,
		Quantity:  booking.Quantity,
		SeatType:  booking.SeatType,
		State:     booking.State,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (s *BookingService) logAnomalies(kind string, anomalies []normalize.Anomaly) {
	for _, anomaly := range anomalies {
		s.logger.Warn().
			Str("kind", kind).
			Str("field", anomaly.Field).
			Str("reason", anomaly.Reason).
			Msg("normalization anomaly")
	}
}
