// Package api is the HTTP client for the league server. The server is the
// system of record for scheduling, matchmaking, email preferences, courses
// and the simulation engine; this client only consumes its contracts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	timeout    = 10 * time.Second
	maxRetries = 3
	retryDelay = 2 * time.Second
)

// APIError carries the HTTP status and the server-provided detail message of
// a failed request.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// Client talks to the league server. GET requests are retried with backoff;
// mutations are never retried; the caller decides whether to resubmit.
// Each logical operation keeps at most one request in flight: a newer call
// cancels the previous one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration

	mu        sync.Mutex
	inflight  map[string]inflightRequest
	nextToken uint64
}

type inflightRequest struct {
	cancel context.CancelFunc
	token  uint64
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		inflight:   make(map[string]inflightRequest),
	}
}

// begin registers a new in-flight request for a logical operation, cancelling
// the previous one for the same operation.
func (c *Client) begin(ctx context.Context, op string) (context.Context, context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.inflight[op]; ok {
		prev.cancel()
	}
	opCtx, cancel := context.WithCancel(ctx)
	c.nextToken++
	token := c.nextToken
	c.inflight[op] = inflightRequest{cancel: cancel, token: token}

	return opCtx, func() {
		c.mu.Lock()
		if current, ok := c.inflight[op]; ok && current.token == token {
			delete(c.inflight, op)
		}
		c.mu.Unlock()
		cancel()
	}
}

// getJSON performs a retried GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	ctx, done := c.begin(ctx, op)
	defer done()

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s response: %w", op, err)
	}
	return nil
}

// sendJSON performs a non-retried mutation and decodes the response into out
// when out is non-nil. Like GETs, a newer call for the same method and path
// supersedes the in-flight one.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	ctx, done := c.begin(ctx, method+" "+path)
	defer done()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// doRequestWithRetry performs a GET with retry logic. Client errors other
// than 429 are not retried.
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if apiErr, ok := err.(*APIError); ok {
			if apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests {
				return nil, err
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single GET request.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// newAPIError extracts the server's detail message when the body carries one.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	detail := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}
	return &APIError{Status: status, Detail: detail}
}

// --- Availability ---

// AllAvailability fetches every player's weekly availability.
func (c *Client) AllAvailability(ctx context.Context) (map[string][]Availability, error) {
	var out map[string][]Availability
	err := c.getJSON(ctx, "availability_all", "/players/availability/all", nil, &out)
	return out, err
}

// PlayerAvailability fetches one player's availability; id may be "me".
func (c *Client) PlayerAvailability(ctx context.Context, playerID string) ([]Availability, error) {
	var out []Availability
	op := "availability_" + playerID
	err := c.getJSON(ctx, op, "/players/"+url.PathEscape(playerID)+"/availability", nil, &out)
	return out, err
}

// SetPlayerAvailability replaces a player's availability.
func (c *Client) SetPlayerAvailability(ctx context.Context, playerID string, entries []Availability) error {
	return c.sendJSON(ctx, http.MethodPost, "/players/"+url.PathEscape(playerID)+"/availability", entries, nil)
}

// --- Signups and messages ---

// WeeklySignups fetches the calendar for the week starting weekStart (YYYY-MM-DD).
func (c *Client) WeeklySignups(ctx context.Context, weekStart string) (*WeeklySignups, error) {
	query := url.Values{}
	query.Set("week_start", weekStart)
	var out WeeklySignups
	if err := c.getJSON(ctx, "weekly_signups", "/signups/weekly-with-messages", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSignup posts a signup for a playing day.
func (c *Client) CreateSignup(ctx context.Context, signup Signup) (*Signup, error) {
	var out Signup
	if err := c.sendJSON(ctx, http.MethodPost, "/signups", signup, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSignup removes a signup.
func (c *Client) DeleteSignup(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, "/signups/"+strconv.FormatInt(id, 10), nil, nil)
}

// PostMessage adds a message to a day's board.
func (c *Client) PostMessage(ctx context.Context, msg DayMessage) (*DayMessage, error) {
	var out DayMessage
	if err := c.sendJSON(ctx, http.MethodPost, "/messages", msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMessage removes a message from a day's board.
func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, "/messages/"+strconv.FormatInt(id, 10), nil, nil)
}

// --- Matchmaking ---

// MatchSuggestions asks the server's suggestion engine for compatible groups.
func (c *Client) MatchSuggestions(ctx context.Context, minOverlapHours float64, preferredDays []int) ([]MatchSuggestion, error) {
	query := url.Values{}
	if minOverlapHours > 0 {
		query.Set("min_overlap_hours", strconv.FormatFloat(minOverlapHours, 'f', -1, 64))
	}
	if len(preferredDays) > 0 {
		days := make([]string, len(preferredDays))
		for i, d := range preferredDays {
			days[i] = strconv.Itoa(d)
		}
		query.Set("preferred_days", strings.Join(days, ","))
	}
	var out []MatchSuggestion
	err := c.getJSON(ctx, "match_suggestions", "/matchmaking/suggestions", query, &out)
	return out, err
}

// CreateAndNotify creates a suggested group and emails its members.
func (c *Client) CreateAndNotify(ctx context.Context, req MatchNotifyRequest) error {
	return c.sendJSON(ctx, http.MethodPost, "/matchmaking/create-and-notify", req, nil)
}

// --- Email ---

// EmailStatus reports the server email service state.
func (c *Client) EmailStatus(ctx context.Context) (*EmailStatus, error) {
	var out EmailStatus
	if err := c.getJSON(ctx, "email_status", "/email/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendTestEmail triggers a test notification to the current player.
func (c *Client) SendTestEmail(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/email/send-test", nil, nil)
}

// EmailPreferences fetches the current player's notification settings.
func (c *Client) EmailPreferences(ctx context.Context) (*EmailPreferences, error) {
	var out EmailPreferences
	if err := c.getJSON(ctx, "email_prefs", "/players/me/email-preferences", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmailPreferences replaces the current player's notification settings.
func (c *Client) UpdateEmailPreferences(ctx context.Context, prefs EmailPreferences) error {
	return c.sendJSON(ctx, http.MethodPut, "/players/me/email-preferences", prefs, nil)
}

// PlayerStatistics fetches a player's aggregated betting record.
func (c *Client) PlayerStatistics(ctx context.Context, playerID string) (*PlayerStatistics, error) {
	var out PlayerStatistics
	err := c.getJSON(ctx, "player_statistics", "/players/"+url.PathEscape(playerID)+"/statistics", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Courses and simulation ---

// Courses fetches the course catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.getJSON(ctx, "courses", "/courses", nil, &out)
	return out, err
}

// SimulationSetup starts a server-side simulation game.
func (c *Client) SimulationSetup(ctx context.Context, req SimulationSetupRequest) (*SimulationState, error) {
	var out SimulationState
	if err := c.sendJSON(ctx, http.MethodPost, "/simulation/setup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimulationPlayHole advances the simulation through the current hole.
func (c *Client) SimulationPlayHole(ctx context.Context, gameID string) (*SimulationState, error) {
	var out SimulationState
	payload := map[string]string{"game_id": gameID}
	if err := c.sendJSON(ctx, http.MethodPost, "/simulation/play-hole", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimulationNextShot plays the next simulated shot.
func (c *Client) SimulationNextShot(ctx context.Context, gameID string) (*SimulationState, error) {
	var out SimulationState
	payload := map[string]string{"game_id": gameID}
	if err := c.sendJSON(ctx, http.MethodPost, "/simulation/next-shot", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimulationBettingDecision submits a betting decision to the simulation.
func (c *Client) SimulationBettingDecision(ctx context.Context, req BettingDecisionRequest) (*SimulationState, error) {
	var out SimulationState
	if err := c.sendJSON(ctx, http.MethodPost, "/simulation/betting-decision", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Sync ---

// SyncEvents pushes a batch of betting events. The server must apply them
// idempotently keyed by event id; the batch is only acknowledged client-side
// on a 2xx response.
func (c *Client) SyncEvents(ctx context.Context, req SyncRequest) error {
	return c.sendJSON(ctx, http.MethodPost, "/games/sync", req, nil)
}
