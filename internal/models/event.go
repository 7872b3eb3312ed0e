package models

// Event is a time-boxed bookable event. Date is kept in the boundary's own
// format; the core only requires it to be non-empty. Price arrives from the
// wire as either a number or a numeric string and is held as float64.
type Event struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	RequiresAdult bool    `json:"requires_adult"`
}
