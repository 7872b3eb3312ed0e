package normalize

import (
	"encoding/json"
	"testing"

	"londonpark/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMixedEncodings(t *testing.T) {
	event, anomalies, err := Event(map[string]any{
		"id":             "1",
		"name":           "Summer Gala",
		"description":    "Evening show",
		"date":           "2026-09-12",
		"price":          "12.50",
		"requires_adult": "1",
	})
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Equal(t, int64(1), event.ID)
	assert.Equal(t, 12.50, event.Price)
	assert.True(t, event.RequiresAdult)
}

func TestEventDegradesMalformedFields(t *testing.T) {
	event, anomalies, err := Event(map[string]any{
		"id":             float64(3),
		"name":           "Kids Day",
		"price":          "free",
		"requires_adult": "maybe",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), event.ID)
	assert.Zero(t, event.Price)
	assert.False(t, event.RequiresAdult)
	require.Len(t, anomalies, 2)
	assert.Equal(t, "price", anomalies[0].Field)
	assert.Equal(t, "requires_adult", anomalies[1].Field)
}

func TestEventMissingIDIsMalformed(t *testing.T) {
	_, _, err := Event(map[string]any{"name": "No ID"})
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "id", malformed.Field)
}

func TestBookingKeySynonyms(t *testing.T) {
	booking, anomalies, err := Booking(map[string]any{
		"id":       "10",
		"userId":   "4",
		"eventId":  float64(2),
		"quantity": float64(3),
		"bookedAt": "2026-08-30 18:00:00",
	})
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Equal(t, int64(10), booking.ID)
	assert.Equal(t, int64(4), booking.UserID)
	assert.Equal(t, int64(2), booking.EventID)
	assert.Equal(t, int64(3), booking.Quantity)
	assert.Equal(t, "2026-08-30 18:00:00", booking.BookedAt)
	assert.Equal(t, models.SeatWithoutTable, booking.SeatType)
	assert.Equal(t, models.BookingStateConfirmed, booking.State)
}

func TestBookingAbsentReferencesDegrade(t *testing.T) {
	booking, anomalies, err := Booking(map[string]any{"id": float64(5)})
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Zero(t, booking.UserID)
	assert.Zero(t, booking.EventID)
	assert.Empty(t, booking.BookedAt)
}

func TestBookingsDropsRecordsWithoutIdentity(t *testing.T) {
	bookings, anomalies := Bookings([]map[string]any{
		{"id": float64(1), "user_id": float64(2)},
		{"user_id": float64(3)},
		{"id": "oops"},
		{"id": "7", "quantity": "2"},
	})
	require.Len(t, bookings, 2)
	assert.Equal(t, int64(1), bookings[0].ID)
	assert.Equal(t, int64(7), bookings[1].ID)
	assert.Len(t, anomalies, 2)
}

func TestUserPasswordOnReadIsAnAnomaly(t *testing.T) {
	user, anomalies, err := User(map[string]any{
		"id":       float64(2),
		"name":     "Ben",
		"email":    "ben@example.com",
		"password": "leaked",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ben", user.Name)
	assert.Empty(t, user.Password)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "password", anomalies[0].Field)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	canonical := map[string]any{
		"id":         float64(12),
		"user_id":    float64(4),
		"event_id":   float64(6),
		"quantity":   float64(2),
		"seat_type":  models.SeatWithTable,
		"booked_at":  "2026-08-30 18:00:00",
		"user_name":  "Ann",
		"event_name": "Summer Gala",
	}

	first, _, err := Booking(canonical)
	require.NoError(t, err)

	// Re-encode the canonical entity and run it through again.
	data, err := json.Marshal(first)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))

	second, anomalies, err := Booking(rec)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Equal(t, first, second)
}

func TestBookingRoundTripPreservesCoreFields(t *testing.T) {
	booking, _, err := Booking(map[string]any{
		"id":        "31",
		"userId":    "5",
		"event_id":  float64(9),
		"quantity":  "4",
		"seat_type": models.SeatWithTable,
	})
	require.NoError(t, err)

	data, err := json.Marshal(booking)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))

	assert.Equal(t, float64(31), rec["id"])
	assert.Equal(t, float64(5), rec["user_id"])
	assert.Equal(t, float64(9), rec["event_id"])
	assert.Equal(t, float64(4), rec["quantity"])
	assert.Equal(t, models.SeatWithTable, rec["seat_type"])
}
