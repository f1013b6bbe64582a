package storage

import (
	"time"
)

// Snapshot is a persisted game-state generation. The current slot holds the
// latest write; the backup slot holds the previous good generation so a
// corrupt or partial write never loses the prior state.
type Snapshot struct {
	Slot    string    `json:"slot" db:"slot"`
	GameID  string    `json:"game_id" db:"game_id"`
	Payload []byte    `json:"payload" db:"payload"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}

// OutboxEvent is a betting event awaiting server acknowledgment. Ownership of
// pending state is exclusively this process; the server only knows about
// received events, which it applies idempotently keyed by EventID.
type OutboxEvent struct {
	ID        int64      `json:"id" db:"id"`
	EventID   string     `json:"event_id" db:"event_id"`
	GameID    string     `json:"game_id" db:"game_id"`
	Hole      int        `json:"hole_number" db:"hole_number"`
	EventType string     `json:"event_type" db:"event_type"`
	Actor     string     `json:"actor" db:"actor"`
	Payload   []byte     `json:"payload" db:"payload"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	AckedAt   *time.Time `json:"acked_at,omitempty" db:"acked_at"`
}

// Profile is a locally cached player profile
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Handicap  float64   `json:"handicap" db:"handicap"`
	TeeOrder  int       `json:"tee_order" db:"tee_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SelectedProfileKey is the kv key holding the active profile id
const SelectedProfileKey = "selected_profile"
