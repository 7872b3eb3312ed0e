package service

import (
	"context"
	"testing"
	"time"

	"londonpark/internal/boundary"
	"londonpark/internal/events"
	"londonpark/internal/models"
	"londonpark/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adminSession() models.Session {
	return models.Session{Role: models.RoleAdmin, Token: "admin-tok"}
}

func newAdminService(b *mockBoundary) (*AdminService, *repository.Collections) {
	collections := repository.NewCollections()
	confirms := repository.NewMemoryConfirmationRepository(time.Minute)
	svc := NewAdminService(b, collections, confirms, events.NewEventBus(), nil, time.Minute, testLogger())
	return svc, collections
}

func TestAdminOperationsRequireAdminSession(t *testing.T) {
	svc, _ := newAdminService(new(mockBoundary))
	ctx := context.Background()
	session := userSession()

	assert.ErrorIs(t, svc.RefreshUsers(ctx, session), models.ErrSessionInvalid)
	assert.ErrorIs(t, svc.SaveUser(ctx, session, models.ModeCreate, models.User{}), models.ErrSessionInvalid)
	assert.ErrorIs(t, svc.SaveEvent(ctx, session, models.ModeCreate, models.Event{}), models.ErrSessionInvalid)
	_, err := svc.RequestDelete(ctx, session, models.KindUsers, 1)
	assert.ErrorIs(t, err, models.ErrSessionInvalid)
	assert.ErrorIs(t, svc.ConfirmDelete(ctx, session, "any"), models.ErrSessionInvalid)
}

func TestSaveUserValidation(t *testing.T) {
	svc, _ := newAdminService(new(mockBoundary))
	ctx := context.Background()

	tests := []struct {
		name  string
		mode  models.Mode
		user  models.User
		field string
	}{
		{"missing name", models.ModeCreate, models.User{Email: "a@b.c", Password: "pw"}, "name"},
		{"missing email", models.ModeCreate, models.User{Name: "Ann", Password: "pw"}, "email"},
		{"create without password", models.ModeCreate, models.User{Name: "Ann", Email: "a@b.c"}, "password"},
		{"edit without id", models.ModeEdit, models.User{Name: "Ann", Email: "a@b.c"}, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveUser(ctx, adminSession(), tt.mode, tt.user)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSaveUserEditWithEmptyPassword(t *testing.T) {
	b := new(mockBoundary)
	svc, _ := newAdminService(b)

	// Empty password on edit is valid and means "leave unchanged"; it is
	// passed through as-is and the boundary adapter drops the field.
	edited := models.User{ID: 7, Name: "Ann", Email: "ann@example.com"}
	b.On("AdminSaveUser", mock.Anything, adminSession(), models.ModeEdit, edited).Return(nil)
	b.On("AdminListUsers", mock.Anything, adminSession()).Return([]map[string]any{
		{"id": float64(7), "name": "Ann", "email": "ann@example.com"},
	}, nil)

	require.NoError(t, svc.SaveUser(context.Background(), adminSession(), models.ModeEdit, edited))
	b.AssertExpectations(t)
}

func TestSaveUserRefetchesAfterMutation(t *testing.T) {
	b := new(mockBoundary)
	svc, collections := newAdminService(b)

	created := models.User{Name: "Bob", Email: "bob@example.com", Password: "secret"}
	b.On("AdminSaveUser", mock.Anything, mock.Anything, models.ModeCreate, created).Return(nil)
	b.On("AdminListUsers", mock.Anything, mock.Anything).Return([]map[string]any{
		{"id": "12", "name": "Bob", "email": "bob@example.com"},
	}, nil)

	require.NoError(t, svc.SaveUser(context.Background(), adminSession(), models.ModeCreate, created))

	users := collections.Users()
	require.Len(t, users, 1)
	assert.Equal(t, int64(12), users[0].ID)
}

func TestSaveEventValidation(t *testing.T) {
	svc, _ := newAdminService(new(mockBoundary))
	ctx := context.Background()

	tests := []struct {
		name  string
		mode  models.Mode
		event models.Event
		field string
	}{
		{"missing name", models.ModeCreate, models.Event{Date: "2026-09-01"}, "name"},
		{"missing date", models.ModeCreate, models.Event{Name: "Gala"}, "date"},
		{"negative price", models.ModeCreate, models.Event{Name: "Gala", Date: "2026-09-01", Price: -1}, "price"},
		{"edit without id", models.ModeEdit, models.Event{Name: "Gala", Date: "2026-09-01"}, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveEvent(ctx, adminSession(), tt.mode, tt.event)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSaveEventInvalidatesCacheAndRefetches(t *testing.T) {
	b := new(mockBoundary)
	svc, collections := newAdminService(b)

	event := models.Event{Name: "Gala", Date: "2026-09-01", Price: 12.50}
	b.On("AdminSaveEvent", mock.Anything, mock.Anything, models.ModeCreate, event).Return(nil)
	b.On("InvalidateEventsCache", mock.Anything).Return()
	b.On("AdminListEvents", mock.Anything, mock.Anything).Return([]map[string]any{
		{"id": float64(3), "name": "Gala", "date": "2026-09-01", "price": "12.50"},
	}, nil)

	require.NoError(t, svc.SaveEvent(context.Background(), adminSession(), models.ModeCreate, event))

	eventList := collections.Events()
	require.Len(t, eventList, 1)
	assert.Equal(t, 12.50, eventList[0].Price)
	b.AssertExpectations(t)
}

func TestSaveEventCorruptResponseLeavesCollectionUnchanged(t *testing.T) {
	b := new(mockBoundary)
	svc, collections := newAdminService(b)
	collections.ReplaceEvents([]models.Event{{ID: 1, Name: "Existing", Date: "2026-01-01"}})

	event := models.Event{Name: "Gala", Date: "2026-09-01"}
	b.On("AdminSaveEvent", mock.Anything, mock.Anything, models.ModeCreate, event).
		Return(boundary.ErrTransportCorruption)

	err := svc.SaveEvent(context.Background(), adminSession(), models.ModeCreate, event)
	assert.ErrorIs(t, err, boundary.ErrTransportCorruption)
	require.Len(t, collections.Events(), 1)
	assert.Equal(t, "Existing", collections.Events()[0].Name)
	b.AssertNotCalled(t, "AdminListEvents", mock.Anything, mock.Anything)
}

func TestRequestDeleteValidation(t *testing.T) {
	svc, _ := newAdminService(new(mockBoundary))
	ctx := context.Background()

	_, err := svc.RequestDelete(ctx, adminSession(), "widgets", 1)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "kind", vErr.Field)

	_, err = svc.RequestDelete(ctx, adminSession(), models.KindUsers, 0)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "id", vErr.Field)
}

func TestRequestDeleteSendsNothing(t *testing.T) {
	b := new(mockBoundary)
	svc, _ := newAdminService(b)

	token, err := svc.RequestDelete(context.Background(), adminSession(), models.KindBookings, 51)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	b.AssertNotCalled(t, "AdminDeleteBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmDeleteUnknownToken(t *testing.T) {
	svc, _ := newAdminService(new(mockBoundary))
	err := svc.ConfirmDelete(context.Background(), adminSession(), "no-such-token")
	assert.ErrorIs(t, err, ErrConfirmationNotFound)
}

func TestConfirmDeleteBooking(t *testing.T) {
	b := new(mockBoundary)
	svc, _ := newAdminService(b)
	ctx := context.Background()

	token, err := svc.RequestDelete(ctx, adminSession(), models.KindBookings, 51)
	require.NoError(t, err)

	b.On("AdminDeleteBooking", mock.Anything, adminSession(), int64(51)).Return(nil)
	b.On("AdminListBookings", mock.Anything, adminSession()).Return([]map[string]any{}, nil)

	require.NoError(t, svc.ConfirmDelete(ctx, adminSession(), token))
	b.AssertExpectations(t)

	// Token is single use.
	assert.ErrorIs(t, svc.ConfirmDelete(ctx, adminSession(), token), ErrConfirmationNotFound)
}

func TestConfirmDeleteConsumesTokenOnFailure(t *testing.T) {
	b := new(mockBoundary)
	svc, _ := newAdminService(b)
	ctx := context.Background()

	token, err := svc.RequestDelete(ctx, adminSession(), models.KindUsers, 7)
	require.NoError(t, err)

	b.On("AdminDeleteUser", mock.Anything, adminSession(), int64(7)).
		Return(&boundary.DomainError{Message: "User has active bookings"}).Once()

	var domainErr *boundary.DomainError
	require.ErrorAs(t, svc.ConfirmDelete(ctx, adminSession(), token), &domainErr)

	// A failed delete needs a fresh request; the token does not survive.
	assert.ErrorIs(t, svc.ConfirmDelete(ctx, adminSession(), token), ErrConfirmationNotFound)
}

func TestConfirmDeleteEventInvalidatesCache(t *testing.T) {
	b := new(mockBoundary)
	svc, _ := newAdminService(b)
	ctx := context.Background()

	token, err := svc.RequestDelete(ctx, adminSession(), models.KindEvents, 3)
	require.NoError(t, err)

	b.On("AdminDeleteEvent", mock.Anything, adminSession(), int64(3)).Return(nil)
	b.On("InvalidateEventsCache", mock.Anything).Return()
	b.On("AdminListEvents", mock.Anything, adminSession()).Return([]map[string]any{}, nil)

	require.NoError(t, svc.ConfirmDelete(ctx, adminSession(), token))
	b.AssertExpectations(t)
}

func TestAdminBookingsResolvesDisplayNames(t *testing.T) {
	b := new(mockBoundary)
	svc, collections := newAdminService(b)

	collections.ReplaceUsers([]models.User{{ID: 4, Name: "Ann"}})
	collections.ReplaceEvents([]models.Event{{ID: 2, Name: "Kids Day"}})
	collections.ReconcileBookings([]models.Booking{
		{ID: 51, UserID: 4, EventID: 2, Quantity: 1, SeatType: models.SeatWithoutTable, State: models.BookingStateConfirmed},
		{ID: 52, UserID: 99, EventID: 98, Quantity: 1, SeatType: models.SeatWithoutTable, State: models.BookingStateConfirmed},
	})

	bookings := svc.Bookings()
	require.Len(t, bookings, 2)
	assert.Equal(t, "Ann", bookings[0].UserName)
	assert.Equal(t, "Kids Day", bookings[0].EventName)
	assert.Empty(t, bookings[1].UserName, "dangling reference stays blank")
	assert.Empty(t, bookings[1].EventName)
}

func TestRefreshAll(t *testing.T) {
	b := new(mockBoundary)
	svc, collections := newAdminService(b)

	b.On("AdminListUsers", mock.Anything, mock.Anything).Return([]map[string]any{
		{"id": float64(4), "name": "Ann", "email": "ann@example.com"},
	}, nil)
	b.On("AdminListEvents", mock.Anything, mock.Anything).Return([]map[string]any{
		{"id": float64(2), "name": "Kids Day", "requires_adult": float64(0)},
	}, nil)
	b.On("AdminListBookings", mock.Anything, mock.Anything).Return([]map[string]any{
		{"id": float64(51), "user_id": float64(4), "event_id": float64(2), "quantity": "1"},
	}, nil)

	require.NoError(t, svc.RefreshAll(context.Background(), adminSession()))
	assert.Len(t, collections.Users(), 1)
	assert.Len(t, collections.Events(), 1)
	assert.Len(t, collections.Bookings(), 1)
}
