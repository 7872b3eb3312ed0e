// Package boundary is the adapter for the external persistence service. It
// owns the wire protocol (endpoints, envelope, bearer credential) and
// nothing else; records come back raw for the normalization layer.
package boundary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"londonpark/internal/metrics"
	"londonpark/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Endpoints of the persistence service.
const (
	epGetEvents     = "get_events.php"
	epGetBookings   = "get_bookings.php"
	epBookTicket    = "book_ticket.php"
	epRegisterUser  = "register_user.php"
	epAdminUsers    = "admin_get_users.php"
	epAdminEvents   = "admin_get_events.php"
	epAdminBookings = "admin_get_bookings.php"

	epCreateUser    = "admin_create_user.php"
	epUpdateUser    = "admin_update_user.php"
	epDeleteUser    = "admin_delete_user.php"
	epCreateEvent   = "admin_create_event.php"
	epUpdateEvent   = "admin_update_event.php"
	epDeleteEvent   = "admin_delete_event.php"
	epDeleteBooking = "admin_delete_booking.php"
)

const eventsCacheKey = "cache:events"

// Client talks to the persistence service. All failures collapse into the
// taxonomy of envelope.go: *DomainError or ErrTransportCorruption.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger

	limiter  *rate.Limiter
	redis    *redis.Client
	cacheTTL time.Duration
}

// New constructs a client. A timeout of zero falls back to ten seconds.
func New(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// UseRateLimit throttles outgoing calls.
func (c *Client) UseRateLimit(rps float64, burst int) {
	if rps <= 0 {
		return
	}
	if burst <= 0 {
		burst = 5
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// UseRedisCache configures optional Redis caching for the public events
// list.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetEvents returns raw event records from the public listing.
func (c *Client) GetEvents(ctx context.Context, session models.Session) ([]map[string]any, error) {
	var cached []map[string]any
	if c.readCache(ctx, eventsCacheKey, &cached) {
		return cached, nil
	}

	env, err := c.doGet(ctx, session, epGetEvents)
	if err != nil {
		return nil, err
	}
	records := env.Records()
	c.writeCache(ctx, eventsCacheKey, records)
	return records, nil
}

// GetUserBookings returns the raw booked tickets for one user.
func (c *Client) GetUserBookings(ctx context.Context, session models.Session, userID int64) ([]map[string]any, error) {
	env, err := c.doPost(ctx, session, epGetBookings, map[string]any{"userId": userID})
	if err != nil {
		return nil, err
	}
	return env.Records(), nil
}

// BookTicket submits a rule-checked booking request.
func (c *Client) BookTicket(ctx context.Context, session models.Session, req models.BookingRequest) error {
	_, err := c.doPost(ctx, session, epBookTicket, req)
	return err
}

// Register creates a user account through the public registration endpoint.
func (c *Client) Register(ctx context.Context, user models.User) error {
	payload := map[string]any{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
	}
	_, err := c.doPost(ctx, models.Session{}, epRegisterUser, payload)
	return err
}

// AdminListUsers returns raw user records for the admin console.
func (c *Client) AdminListUsers(ctx context.Context, session models.Session) ([]map[string]any, error) {
	env, err := c.doGet(ctx, session, epAdminUsers)
	if err != nil {
		return nil, err
	}
	return env.Records(), nil
}

// AdminListEvents returns raw event records for the admin console.
func (c *Client) AdminListEvents(ctx context.Context, session models.Session) ([]map[string]any, error) {
	env, err := c.doGet(ctx, session, epAdminEvents)
	if err != nil {
		return nil, err
	}
	return env.Records(), nil
}

// AdminListBookings returns raw booking records for the admin console.
func (c *Client) AdminListBookings(ctx context.Context, session models.Session) ([]map[string]any, error) {
	env, err := c.doGet(ctx, session, epAdminBookings)
	if err != nil {
		return nil, err
	}
	return env.Records(), nil
}

// AdminSaveUser creates or updates a user depending on mode. On edit an
// empty password means "leave unchanged" and the field is omitted from the
// payload entirely.
func (c *Client) AdminSaveUser(ctx context.Context, session models.Session, mode models.Mode, user models.User) error {
	payload := map[string]any{
		"name":  user.Name,
		"email": user.Email,
	}
	if user.Password != "" || mode == models.ModeCreate {
		payload["password"] = user.Password
	}

	endpoint := epCreateUser
	if mode == models.ModeEdit {
		endpoint = epUpdateUser
		payload["id"] = user.ID
	}
	_, err := c.doPost(ctx, session, endpoint, payload)
	return err
}

// AdminSaveEvent creates or updates an event depending on mode. The service
// expects requiresAdult as 1/0.
func (c *Client) AdminSaveEvent(ctx context.Context, session models.Session, mode models.Mode, event models.Event) error {
	requiresAdult := 0
	if event.RequiresAdult {
		requiresAdult = 1
	}
	payload := map[string]any{
		"name":          event.Name,
		"description":   event.Description,
		"date":          event.Date,
		"price":         event.Price,
		"requiresAdult": requiresAdult,
	}

	endpoint := epCreateEvent
	if mode == models.ModeEdit {
		endpoint = epUpdateEvent
		payload["id"] = event.ID
	}
	_, err := c.doPost(ctx, session, endpoint, payload)
	return err
}

// AdminDeleteUser removes a user by id.
func (c *Client) AdminDeleteUser(ctx context.Context, session models.Session, id int64) error {
	_, err := c.doPost(ctx, session, epDeleteUser, map[string]any{"id": id})
	return err
}

// AdminDeleteEvent removes an event by id.
func (c *Client) AdminDeleteEvent(ctx context.Context, session models.Session, id int64) error {
	_, err := c.doPost(ctx, session, epDeleteEvent, map[string]any{"id": id})
	return err
}

// AdminDeleteBooking removes a booking by id.
func (c *Client) AdminDeleteBooking(ctx context.Context, session models.Session, id int64) error {
	_, err := c.doPost(ctx, session, epDeleteBooking, map[string]any{"id": id})
	return err
}

// InvalidateEventsCache drops the cached public events list. Mutation flows
// call this before their refetch so a stale cache can not outlive a change.
func (c *Client) InvalidateEventsCache(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, eventsCacheKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("events cache invalidation failed")
	}
}

func (c *Client) doGet(ctx context.Context, session models.Session, endpoint string) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
	}
	c.addHeaders(req, session)
	return c.do(req, endpoint)
}

func (c *Client) doPost(ctx context.Context, session models.Session, endpoint string, body any) (*Envelope, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req, session)
	return c.do(req, endpoint)
}

func (c *Client) do(req *http.Request, endpoint string) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
		}
	}

	metrics.IncBoundaryRequest(endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncTransportCorruption()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("boundary request failed")
		return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &Envelope{Status: statusSuccess}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncTransportCorruption()
		return nil, fmt.Errorf("%w: %v", ErrTransportCorruption, err)
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		if _, ok := err.(*DomainError); !ok {
			metrics.IncTransportCorruption()
			c.logger.Error().Str("endpoint", endpoint).Int("http_status", resp.StatusCode).Msg("unparseable boundary response")
		}
		return nil, err
	}

	// A non-2xx with a parseable success body still means the boundary is
	// misbehaving; treat it as a rejection with whatever message it sent.
	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return nil, &DomainError{Message: msg}
	}

	return env, nil
}

func (c *Client) addHeaders(req *http.Request, session models.Session) {
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}
