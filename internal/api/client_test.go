package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClient returns a client with a fast retry backoff for tests.
func testClient(baseURL string) *Client {
	c := NewClient(baseURL)
	c.retryDelay = time.Millisecond
	return c
}

func TestWeeklySignups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signups/weekly-with-messages", r.URL.Path)
		assert.Equal(t, "2026-08-24", r.URL.Query().Get("week_start"))
		json.NewEncoder(w).Encode(WeeklySignups{
			WeekStart: "2026-08-24",
			Days: []SignupDay{
				{Date: "2026-08-24", Signups: []Signup{{ID: 1, PlayerID: "p1", Date: "2026-08-24"}}},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	week, err := client.WeeklySignups(context.Background(), "2026-08-24")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-24", week.WeekStart)
	assert.Len(t, week.Days, 1)
	assert.Equal(t, "p1", week.Days[0].Signups[0].PlayerID)
}

func TestGetAcceptsAnyTwoHundred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode([]Course{{Name: "Winged Foot"}})
	}))
	defer server.Close()

	client := testClient(server.URL)
	courses, err := client.Courses(context.Background())
	assert.NoError(t, err, "any 2xx response is a success")
	assert.Len(t, courses, 1)
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "already signed up for this day"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CreateSignup(context.Background(), Signup{PlayerID: "p1", Date: "2026-08-24"})
	assert.Error(t, err)

	apiErr, ok := err.(*APIError)
	assert.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already signed up for this day", apiErr.Detail)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]Course{{Name: "Winged Foot"}})
	}))
	defer server.Close()

	client := testClient(server.URL)
	courses, err := client.Courses(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, courses, 1)
	assert.Equal(t, "Winged Foot", courses[0].Name)
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "no such player"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.PlayerAvailability(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.SendTestEmail(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "mutations must never be auto-retried")
}

func TestSyncEventsPayloadShape(t *testing.T) {
	var got SyncRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/games/sync", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.SyncEvents(context.Background(), SyncRequest{
		GameID:     "game-1",
		HoleNumber: 7,
		Events: []SyncEvent{
			{EventID: "e1", GameID: "game-1", HoleNumber: 7, EventType: "DOUBLE_OFFERED", Actor: "p1"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "game-1", got.GameID)
	assert.Equal(t, 7, got.HoleNumber)
	assert.Len(t, got.Events, 1)
	assert.Equal(t, "e1", got.Events[0].EventID)
}

func TestEmailPreferencesRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/me/email-preferences", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(EmailPreferences{DailySignupReminder: true})
		case http.MethodPut:
			var prefs EmailPreferences
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&prefs))
			assert.True(t, prefs.WeeklySummary)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	prefs, err := client.EmailPreferences(context.Background())
	assert.NoError(t, err)
	assert.True(t, prefs.DailySignupReminder)

	err = client.UpdateEmailPreferences(context.Background(), EmailPreferences{WeeklySummary: true})
	assert.NoError(t, err)
}
