// Package handlers exposes the keeper's read-only state over a loopback
// HTTP mux: health, sync status, standings and the live game view.
package handlers

import (
	"encoding/json"
	"net/http"

	"wolfgoatpig/internal/game"
	"wolfgoatpig/internal/outbox"
)

// PingResponse is the response for the ping endpoint
type PingResponse struct {
	Status string `json:"status"`
}

// PingHandler handles the /api/ping endpoint
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondWithJSON(w, http.StatusOK, PingResponse{Status: "ok"})
}

// HandleStatus serves the sync status published by the outbox manager.
func HandleStatus(manager *outbox.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if manager == nil {
			respondWithError(w, "No active game", http.StatusNotFound)
			return
		}
		respondWithJSON(w, http.StatusOK, manager.Status())
	}
}

// StandingEntry is one player's row in the standings response.
type StandingEntry struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Quarters  int    `json:"quarters"`
	SoloCount int    `json:"solo_count"`
}

// HandleStandings serves the derived per-player standings.
func HandleStandings(session *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if session == nil {
			respondWithError(w, "No active game", http.StatusNotFound)
			return
		}

		standings := session.Standings()
		entries := make([]StandingEntry, 0, len(standings))
		for _, p := range session.Players() {
			s := standings[p.ID]
			entries = append(entries, StandingEntry{
				PlayerID:  p.ID,
				Name:      p.Name,
				Quarters:  s.Quarters,
				SoloCount: s.SoloCount,
			})
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

// GameResponse is the live game view.
type GameResponse struct {
	GameID       string `json:"game_id"`
	CurrentHole  int    `json:"current_hole"`
	Phase        string `json:"phase"`
	Goat         string `json:"goat,omitempty"`
	CurrentWager int    `json:"current_wager"`
	CarryOver    bool   `json:"carry_over"`
	Captain      string `json:"captain"`
	HolesPlayed  int    `json:"holes_played"`
	OfferPending bool   `json:"offer_pending"`
}

// HandleGame serves a summary of the live session.
func HandleGame(session *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if session == nil {
			respondWithError(w, "No active game", http.StatusNotFound)
			return
		}

		phase := session.Phase()
		betting := session.Betting()
		respondWithJSON(w, http.StatusOK, GameResponse{
			GameID:       session.GameID(),
			CurrentHole:  phase.CurrentHole,
			Phase:        string(phase.Phase),
			Goat:         phase.GoatID,
			CurrentWager: betting.CurrentWager,
			CarryOver:    betting.CarryOver,
			Captain:      session.Teams().CurrentCaptain(),
			HolesPlayed:  len(session.Holes()),
			OfferPending: session.PendingOffer() != nil,
		})
	}
}

// NewMux assembles the loopback API.
func NewMux(session *game.Session, manager *outbox.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", PingHandler)
	mux.HandleFunc("/api/status", HandleStatus(manager))
	mux.HandleFunc("/api/standings", HandleStandings(session))
	mux.HandleFunc("/api/game", HandleGame(session))
	return mux
}

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	respondWithJSON(w, statusCode, map[string]string{"error": message})
}
