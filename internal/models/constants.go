package models

const (
	SeatWithoutTable = "without_table"
	SeatWithTable    = "with_table"
)

const (
	BookingStateTentative = "tentative"
	BookingStateConfirmed = "confirmed"
)

// Entity kinds as the boundary names them.
const (
	KindUsers    = "users"
	KindEvents   = "events"
	KindBookings = "bookings"
)

const (
	// MaxAdultQuantity is the ticket ceiling for events that require adult
	// verification.
	MaxAdultQuantity = 8

	// MaxQuantity is the ticket ceiling for all other events.
	MaxQuantity = 100

	// DefaultQuantity applies when the caller leaves quantity unspecified.
	DefaultQuantity = 1
)

const (
	// DefaultConfirmTTL is how long a pending delete confirmation stays
	// acknowledgeable, in seconds.
	DefaultConfirmTTL = 5 * 60

	// DefaultCacheTTL is the boundary GET cache lifetime, in seconds.
	DefaultCacheTTL = 60
)

// ValidSeatType reports membership in the closed seat type set.
func ValidSeatType(seatType string) bool {
	return seatType == SeatWithoutTable || seatType == SeatWithTable
}
