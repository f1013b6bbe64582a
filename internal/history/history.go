// Package history keeps the append-only log of completed holes and derives
// player standings from it.
package history

import (
	"fmt"

	"wolfgoatpig/internal/engine"
)

// HoleRecord is one completed hole. A finalized record's points always sum to
// zero across all players.
type HoleRecord struct {
	Hole          int                   `json:"hole"`
	GrossScores   map[string]int        `json:"gross_scores"`
	PointsDelta   map[string]int        `json:"points_delta"`
	Teams         engine.TeamSnapshot   `json:"teams"`
	Winner        string                `json:"winner"`
	Notes         string                `json:"notes,omitempty"`
	BettingEvents []engine.BettingEvent `json:"betting_events,omitempty"`
}

// Standing is a player's accumulated position in the round.
type Standing struct {
	Quarters  int `json:"quarters"`
	SoloCount int `json:"solo_count"`
}

// Log is the hole-result history. Hole records support in-place correction
// via UpdateHole for the edit-a-past-hole workflow; betting events inside a
// record are append-only and never rewritten. Standings are recomputed from
// scratch on every change; rounds are bounded at 18 holes, so the fold is
// cheap and stays trivially correct.
type Log struct {
	holes     []HoleRecord
	standings map[string]Standing
}

// NewLog returns an empty history.
func NewLog() *Log {
	return &Log{standings: map[string]Standing{}}
}

// AddHole appends a completed hole.
func (l *Log) AddHole(rec HoleRecord) {
	l.holes = append(l.holes, rec)
	l.recompute()
}

// UpdateHole replaces the record at the given index.
func (l *Log) UpdateHole(index int, rec HoleRecord) error {
	if index < 0 || index >= len(l.holes) {
		return fmt.Errorf("hole index out of range: %d", index)
	}
	l.holes[index] = rec
	l.recompute()
	return nil
}

// SetHistory replaces the whole log, e.g. when restoring a snapshot.
func (l *Log) SetHistory(holes []HoleRecord) {
	l.holes = append([]HoleRecord{}, holes...)
	l.recompute()
}

// Holes returns a copy of the log.
func (l *Log) Holes() []HoleRecord {
	return append([]HoleRecord{}, l.holes...)
}

// Len returns the number of completed holes.
func (l *Log) Len() int {
	return len(l.holes)
}

// Standings returns the derived per-player standings.
func (l *Log) Standings() map[string]Standing {
	out := make(map[string]Standing, len(l.standings))
	for id, s := range l.standings {
		out[id] = s
	}
	return out
}

func (l *Log) recompute() {
	standings := map[string]Standing{}
	for _, rec := range l.holes {
		for id, delta := range rec.PointsDelta {
			s := standings[id]
			s.Quarters += delta
			standings[id] = s
		}
		if rec.Teams.Type == string(engine.ModeSolo) && rec.Teams.Captain != "" {
			s := standings[rec.Teams.Captain]
			s.SoloCount++
			standings[rec.Teams.Captain] = s
		}
	}
	l.standings = standings
}
