package repository

import (
	"sync"

	"londonpark/internal/models"
)

// Collections holds the normalized in-memory view of users, events and
// bookings. State is authoritative-by-refetch: the only writes are a
// wholesale snapshot replace after a successful refetch, plus the one
// sanctioned exception of a tentative booking echo. Readers get copies.
type Collections struct {
	mu       sync.RWMutex
	users    []models.User
	events   []models.Event
	bookings []models.Booking
}

func NewCollections() *Collections {
	return &Collections{}
}

func (c *Collections) Users() []models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.User(nil), c.users...)
}

func (c *Collections) Events() []models.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Event(nil), c.events...)
}

func (c *Collections) Bookings() []models.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Booking(nil), c.bookings...)
}

// EventByID looks an event up in the current snapshot.
func (c *Collections) EventByID(id int64) (models.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, event := range c.events {
		if event.ID == id {
			return event, true
		}
	}
	return models.Event{}, false
}

// UserByID looks a user up in the current snapshot. Bookings hold weak
// references; a miss means "display as absent", never an error.
func (c *Collections) UserByID(id int64) (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, user := range c.users {
		if user.ID == id {
			return user, true
		}
	}
	return models.User{}, false
}

func (c *Collections) ReplaceUsers(users []models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append([]models.User(nil), users...)
}

func (c *Collections) ReplaceEvents(events []models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append([]models.Event(nil), events...)
}

// AppendTentative adds an optimistic booking echo. The caller must have set
// TempID and State=tentative.
func (c *Collections) AppendTentative(booking models.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookings = append(c.bookings, booking)
}

// ReconcileBookings installs a refetched snapshot as the authoritative
// booking list. A tentative echo whose shape is matched by a confirmed row
// has been assigned its real id and is dropped; an unmatched echo is kept
// (the refetch may have raced the write) and the next reconcile settles it.
func (c *Collections) ReconcileBookings(confirmed []models.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := append([]models.Booking(nil), confirmed...)
	for _, tentative := range c.bookings {
		if !tentative.Tentative() {
			continue
		}
		matched := false
		for _, booking := range confirmed {
			if booking.UserID == tentative.UserID &&
				booking.EventID == tentative.EventID &&
				booking.Quantity == tentative.Quantity &&
				booking.SeatType == tentative.SeatType {
				matched = true
				break
			}
		}
		if !matched {
			next = append(next, tentative)
		}
	}
	c.bookings = next
}
