package engine

import "time"

// EventType enumerates the betting event kinds shared with the league server.
type EventType string

const (
	EventDoubleOffered    EventType = "DOUBLE_OFFERED"
	EventDoubleAccepted   EventType = "DOUBLE_ACCEPTED"
	EventDoubleDeclined   EventType = "DOUBLE_DECLINED"
	EventFloatInvoked     EventType = "FLOAT_INVOKED"
	EventOptionInvoked    EventType = "OPTION_INVOKED"
	EventOptionTurnedOff  EventType = "OPTION_TURNED_OFF"
	EventDuncanInvoked    EventType = "DUNCAN_INVOKED"
	EventJoesSpecial      EventType = "JOES_SPECIAL_SET"
	EventCarryOver        EventType = "CARRY_OVER"
	EventCarryOverApplied EventType = "CARRY_OVER_APPLIED"
	EventAardvarkRequest  EventType = "AARDVARK_REQUESTED"
	EventAardvarkAccepted EventType = "AARDVARK_ACCEPTED"
	EventAardvarkTossed   EventType = "AARDVARK_TOSSED"
	EventGoatDesignated   EventType = "GOAT_DESIGNATED"
	EventHoleComplete     EventType = "HOLE_COMPLETE"
)

// BettingEvent is an append-only record of a betting action. Once created it
// is never mutated; it leaves the unsynced set only after a confirmed
// round-trip to the server, which applies events idempotently by EventID.
type BettingEvent struct {
	EventID    string         `json:"event_id"`
	GameID     string         `json:"game_id"`
	HoleNumber int            `json:"hole_number"`
	Type       EventType      `json:"event_type"`
	Actor      string         `json:"actor"` // player ID or SystemActor
	Timestamp  time.Time      `json:"timestamp"`
	Data       map[string]any `json:"data,omitempty"`
}

// PendingOffer is the transient slot for an outstanding double offer. At most
// one exists at a time; resolving it moves the outcome into the hole's event
// list and clears the slot.
type PendingOffer struct {
	Type            EventType `json:"type"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	WagerMultiplier int       `json:"wager_multiplier"`
	Timestamp       time.Time `json:"timestamp"`
}
