package models

// Booking references its user and event by identifier only; UserName and
// EventName are display fields filled in where a name is known, never a
// source of truth. A booking created locally as an optimistic echo carries a
// TempID and State=tentative until a refetch confirms it.
type Booking struct {
	ID         int64  `json:"id"`
	TempID     string `json:"-"`
	UserID     int64  `json:"user_id"`
	EventID    int64  `json:"event_id"`
	UserName   string `json:"user_name,omitempty"`
	EventName  string `json:"event_name,omitempty"`
	Quantity   int64  `json:"quantity"`
	SeatType   string `json:"seat_type"`
	AdultPhoto string `json:"adult_photo,omitempty"`
	BookedAt   string `json:"booked_at,omitempty"`
	State      string `json:"-"`
}

// Tentative reports whether the booking is a local echo not yet confirmed by
// a refetch.
func (b *Booking) Tentative() bool {
	return b.State == BookingStateTentative
}

// BookingIntent is what the caller asks for before the rule engine has seen
// it. Zero Quantity means unspecified, as does an empty SeatType.
type BookingIntent struct {
	Quantity   int64
	SeatType   string
	AdultPhoto string
}

// BookingRequest is a rule-checked intent ready for submission through the
// boundary. Field names match the book_ticket form fields.
type BookingRequest struct {
	UserID     int64  `json:"userId"`
	EventID    int64  `json:"eventId"`
	Quantity   int64  `json:"quantity"`
	SeatType   string `json:"seat_type"`
	AdultPhoto string `json:"adult_photo,omitempty"`
}
