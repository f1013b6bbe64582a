package api

import "time"

// Availability is one weekday's availability window for a player.
type Availability struct {
	DayOfWeek         int    `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	IsAvailable       bool   `json:"is_available"`
	AvailableFromTime string `json:"available_from_time,omitempty"`
	AvailableToTime   string `json:"available_to_time,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// Signup is a player committing to a playing day.
type Signup struct {
	ID             int64  `json:"id,omitempty"`
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name,omitempty"`
	Date           string `json:"date"` // YYYY-MM-DD
	PreferredStart string `json:"preferred_start_time,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// DayMessage is one post on a playing day's message board.
type DayMessage struct {
	ID         int64     `json:"id,omitempty"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name,omitempty"`
	Date       string    `json:"date"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// SignupDay is one day of the weekly calendar with its signups and messages.
type SignupDay struct {
	Date     string       `json:"date"`
	Signups  []Signup     `json:"signups"`
	Messages []DayMessage `json:"messages"`
}

// WeeklySignups is the weekly-with-messages calendar response.
type WeeklySignups struct {
	WeekStart string      `json:"week_start"`
	Days      []SignupDay `json:"days"`
}

// MatchSuggestion is one suggested group from the matchmaking engine.
type MatchSuggestion struct {
	PlayerIDs    []string `json:"player_ids"`
	PlayerNames  []string `json:"player_names,omitempty"`
	OverlapHours float64  `json:"overlap_hours"`
	Day          int      `json:"day_of_week"`
	StartTime    string   `json:"suggested_start_time,omitempty"`
}

// MatchNotifyRequest asks the server to create a group and notify its members.
type MatchNotifyRequest struct {
	PlayerIDs []string `json:"player_ids"`
	Day       int      `json:"day_of_week"`
	StartTime string   `json:"start_time,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// EmailStatus reports whether the server-side email service is operational.
type EmailStatus struct {
	Enabled    bool   `json:"enabled"`
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
}

// EmailPreferences are a player's notification settings.
type EmailPreferences struct {
	DailySignupReminder bool `json:"daily_signup_reminder"`
	WeeklySummary       bool `json:"weekly_summary"`
	GameInvitations     bool `json:"game_invitations"`
	SignupConfirmations bool `json:"signup_confirmations"`
}

// PlayerStatistics aggregates a player's betting record across games.
type PlayerStatistics struct {
	PlayerID       string  `json:"player_id"`
	GamesPlayed    int     `json:"games_played"`
	HolesPlayed    int     `json:"holes_played"`
	TotalQuarters  int     `json:"total_quarters"`
	SoloAttempts   int     `json:"solo_attempts"`
	SoloWins       int     `json:"solo_wins"`
	DoublesOffered int     `json:"doubles_offered"`
	DoublesWon     int     `json:"doubles_won"`
	AvgPerHole     float64 `json:"avg_quarters_per_hole"`
}

// CourseHole is one hole's card data.
type CourseHole struct {
	Number   int `json:"hole_number"`
	Par      int `json:"par"`
	Yards    int `json:"yards"`
	Handicap int `json:"stroke_index"`
}

// Course is a golf course served by the league server.
type Course struct {
	Name  string       `json:"name"`
	Holes []CourseHole `json:"holes"`
}

// SimulationSetupRequest starts a server-side simulation game.
type SimulationSetupRequest struct {
	CourseName string           `json:"course_name"`
	Players    []SimulationSlot `json:"players"`
	BaseWager  int              `json:"base_wager,omitempty"`
	Options    map[string]any   `json:"options,omitempty"`
}

// SimulationSlot is one seat in a simulation (human or computer).
type SimulationSlot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Handicap    float64 `json:"handicap"`
	IsComputer  bool    `json:"is_computer"`
	Personality string  `json:"personality,omitempty"`
}

// SimulationState is the authoritative simulation state returned by the server.
type SimulationState struct {
	GameID       string         `json:"game_id"`
	CurrentHole  int            `json:"current_hole"`
	Phase        string         `json:"phase"`
	Feedback     []string       `json:"feedback,omitempty"`
	GameState    map[string]any `json:"game_state,omitempty"`
	NextShotHint map[string]any `json:"next_shot,omitempty"`
}

// BettingDecisionRequest answers a simulation betting prompt.
type BettingDecisionRequest struct {
	GameID   string         `json:"game_id"`
	Decision string         `json:"decision"`
	Data     map[string]any `json:"data,omitempty"`
}

// SyncRequest is the batched event payload. The server applies events
// idempotently keyed by event_id.
type SyncRequest struct {
	GameID     string      `json:"gameId"`
	HoleNumber int         `json:"holeNumber"`
	Events     []SyncEvent `json:"events"`
}

// SyncEvent is the wire form of a betting event.
type SyncEvent struct {
	EventID    string         `json:"event_id"`
	GameID     string         `json:"game_id"`
	HoleNumber int            `json:"hole_number"`
	EventType  string         `json:"event_type"`
	Actor      string         `json:"actor"`
	Timestamp  time.Time      `json:"timestamp"`
	Data       map[string]any `json:"data,omitempty"`
}
