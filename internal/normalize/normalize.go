// Package normalize reconciles the boundary's heterogeneous wire records
// into canonical entities. A malformed non-identity field degrades to a safe
// default and is recorded as an anomaly; a malformed identity drops the
// whole record from the collection.
package normalize

import (
	"fmt"

	"londonpark/internal/models"
)

// Anomaly records a field that could not be normalized and was degraded.
type Anomaly struct {
	Field  string
	Reason string
}

// MalformedRecordError marks a record unusable because its identity field
// could not be normalized.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %s: %s", e.Field, e.Reason)
}

// User normalizes a raw user record. Password never appears on reads, so a
// present password key is itself an anomaly worth recording.
func User(rec map[string]any) (models.User, []Anomaly, error) {
	var anomalies []Anomaly

	id, err := requireID(rec, "id")
	if err != nil {
		return models.User{}, nil, err
	}

	user := models.User{
		ID:        id,
		Name:      stringField(rec, "name", &anomalies),
		Email:     stringField(rec, "email", &anomalies),
		CreatedAt: stringField(rec, "created_at", &anomalies),
	}
	if _, present := Resolve(rec, "password"); present {
		anomalies = append(anomalies, Anomaly{Field: "password", Reason: "password present on read"})
	}
	return user, anomalies, nil
}

// Event normalizes a raw event record.
func Event(rec map[string]any) (models.Event, []Anomaly, error) {
	var anomalies []Anomaly

	id, err := requireID(rec, "id")
	if err != nil {
		return models.Event{}, nil, err
	}

	event := models.Event{
		ID:          id,
		Name:        stringField(rec, "name", &anomalies),
		Description: stringField(rec, "description", &anomalies),
		Date:        stringField(rec, "date", &anomalies),
	}

	if raw, present := Resolve(rec, "price"); present {
		price, err := Price(raw)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "price", Reason: err.Error()})
		} else {
			event.Price = price
		}
	}

	if raw, present := Resolve(rec, "requires_adult"); present {
		requiresAdult, err := Bool(raw)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "requires_adult", Reason: err.Error()})
		} else {
			event.RequiresAdult = requiresAdult
		}
	}

	return event, anomalies, nil
}

// Booking normalizes a raw booking record. The user and event references are
// weak: an unresolvable reference degrades to zero rather than dropping the
// row, since the booking itself is still displayable.
func Booking(rec map[string]any) (models.Booking, []Anomaly, error) {
	var anomalies []Anomaly

	id, err := requireID(rec, "id")
	if err != nil {
		return models.Booking{}, nil, err
	}

	booking := models.Booking{
		ID:        id,
		UserID:    idField(rec, "user_id", &anomalies),
		EventID:   idField(rec, "event_id", &anomalies),
		UserName:  stringField(rec, "user_name", &anomalies),
		EventName: stringField(rec, "event_name", &anomalies),
		SeatType:  stringField(rec, "seat_type", &anomalies),
		BookedAt:  stringField(rec, "booked_at", &anomalies),
		State:     models.BookingStateConfirmed,
	}

	if raw, present := Resolve(rec, "quantity"); present {
		quantity, err := ID(raw)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "quantity", Reason: err.Error()})
		} else {
			booking.Quantity = quantity
		}
	}

	if raw, present := Resolve(rec, "adult_photo"); present {
		photo, err := String(raw)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "adult_photo", Reason: err.Error()})
		} else {
			booking.AdultPhoto = photo
		}
	}

	if booking.SeatType == "" {
		booking.SeatType = models.SeatWithoutTable
	}

	return booking, anomalies, nil
}

// Users normalizes a collection, dropping records whose identity is
// malformed and collecting every anomaly along the way.
func Users(recs []map[string]any) ([]models.User, []Anomaly) {
	users := make([]models.User, 0, len(recs))
	var anomalies []Anomaly
	for _, rec := range recs {
		user, recAnomalies, err := User(rec)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "id", Reason: err.Error()})
			continue
		}
		anomalies = append(anomalies, recAnomalies...)
		users = append(users, user)
	}
	return users, anomalies
}

// Events normalizes a collection of raw event records.
func Events(recs []map[string]any) ([]models.Event, []Anomaly) {
	events := make([]models.Event, 0, len(recs))
	var anomalies []Anomaly
	for _, rec := range recs {
		event, recAnomalies, err := Event(rec)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "id", Reason: err.Error()})
			continue
		}
		anomalies = append(anomalies, recAnomalies...)
		events = append(events, event)
	}
	return events, anomalies
}

// Bookings normalizes a collection of raw booking records.
func Bookings(recs []map[string]any) ([]models.Booking, []Anomaly) {
	bookings := make([]models.Booking, 0, len(recs))
	var anomalies []Anomaly
	for _, rec := range recs {
		booking, recAnomalies, err := Booking(rec)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Field: "id", Reason: err.Error()})
			continue
		}
		anomalies = append(anomalies, recAnomalies...)
		bookings = append(bookings, booking)
	}
	return bookings, anomalies
}

func requireID(rec map[string]any, field string) (int64, error) {
	raw, present := Resolve(rec, field)
	if !present {
		return 0, &MalformedRecordError{Field: field, Reason: "missing"}
	}
	id, err := ID(raw)
	if err != nil {
		return 0, &MalformedRecordError{Field: field, Reason: err.Error()}
	}
	return id, nil
}

func idField(rec map[string]any, field string, anomalies *[]Anomaly) int64 {
	raw, present := Resolve(rec, field)
	if !present {
		return 0
	}
	id, err := ID(raw)
	if err != nil {
		*anomalies = append(*anomalies, Anomaly{Field: field, Reason: err.Error()})
		return 0
	}
	return id
}

func stringField(rec map[string]any, field string, anomalies *[]Anomaly) string {
	raw, present := Resolve(rec, field)
	if !present {
		return ""
	}
	s, err := String(raw)
	if err != nil {
		*anomalies = append(*anomalies, Anomaly{Field: field, Reason: err.Error()})
		return ""
	}
	return s
}
