package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wolfgoatpig/internal/engine"
	"wolfgoatpig/internal/game"
	"wolfgoatpig/internal/storage"
)

func setupTestDB(t *testing.T) {
	if err := storage.InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	storage.CloseDB()
}

type nopRecorder struct{}

func (nopRecorder) Record(ev engine.BettingEvent) error              { return nil }
func (nopRecorder) CompleteHole(ctx context.Context, hole int) error { return nil }

func testSession(t *testing.T) *game.Session {
	players := []engine.Player{
		{ID: "p1", Name: "Al"},
		{ID: "p2", Name: "Bea"},
		{ID: "p3", Name: "Cy"},
		{ID: "p4", Name: "Dot"},
	}
	s, err := game.NewSession("game-1", players, 1, nopRecorder{})
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return s
}

func TestPingHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/ping", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(PingHandler)
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response["status"])
	}
}

func TestPingHandlerInvalidMethod(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/ping", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(PingHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestHandleGame(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	session := testSession(t)
	if err := session.InvokeFloat("p1"); err != nil {
		t.Fatalf("InvokeFloat returned error: %v", err)
	}

	req, _ := http.NewRequest("GET", "/api/game", nil)
	rr := httptest.NewRecorder()
	HandleGame(session).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var response GameResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.GameID != "game-1" {
		t.Errorf("Expected game-1, got %s", response.GameID)
	}
	if response.CurrentHole != 1 {
		t.Errorf("Expected hole 1, got %d", response.CurrentHole)
	}
	if response.CurrentWager != 2 {
		t.Errorf("Expected wager 2 after float, got %d", response.CurrentWager)
	}
	if response.Captain != "p1" {
		t.Errorf("Expected captain p1, got %s", response.Captain)
	}
}

func TestHandleGameNoSession(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/game", nil)
	rr := httptest.NewRecorder()
	HandleGame(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestHandleStandings(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	session := testSession(t)

	req, _ := http.NewRequest("GET", "/api/standings", nil)
	rr := httptest.NewRecorder()
	HandleStandings(session).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var entries []StandingEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != "p1" || entries[0].Name != "Al" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
}

func TestHandleStatusNoManager(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()
	HandleStatus(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
