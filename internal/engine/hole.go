package engine

// HoleEntryState holds the in-progress scores and quarters for the hole being
// played, keyed by player ID. Display order is a UI concern independent of a
// single hole's data and survives Reset.
type HoleEntryState struct {
	Scores       map[string]int `json:"scores"`
	Quarters     map[string]int `json:"quarters"`
	Winner       string         `json:"winner,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	DisplayOrder []string       `json:"display_order"`
}

// NewHoleEntryState returns empty entry state with the given display order.
func NewHoleEntryState(displayOrder []string) HoleEntryState {
	return HoleEntryState{
		Scores:       map[string]int{},
		Quarters:     map[string]int{},
		DisplayOrder: append([]string{}, displayOrder...),
	}
}

// SetScore records a gross score. Score range validation (>=1) happens at the
// input boundary, not here.
func (s HoleEntryState) SetScore(playerID string, strokes int) HoleEntryState {
	s.Scores = copyIntMap(s.Scores)
	s.Scores[playerID] = strokes
	return s
}

// SetQuarters records a player's quarters for the hole. Zero counts as entered.
func (s HoleEntryState) SetQuarters(playerID string, quarters int) HoleEntryState {
	s.Quarters = copyIntMap(s.Quarters)
	s.Quarters[playerID] = quarters
	return s
}

// SetWinner tags the hole outcome ("team1", "team2", "captain", "opponents"
// or "push").
func (s HoleEntryState) SetWinner(winner string) HoleEntryState {
	s.Winner = winner
	return s
}

// SetNotes attaches free-form notes to the hole.
func (s HoleEntryState) SetNotes(notes string) HoleEntryState {
	s.Notes = notes
	return s
}

// AllScoresEntered reports whether every rostered player has a score.
func (s HoleEntryState) AllScoresEntered(roster []string) bool {
	for _, id := range roster {
		if _, ok := s.Scores[id]; !ok {
			return false
		}
	}
	return len(roster) > 0
}

// AllQuartersEntered reports whether every rostered player has quarters entered.
func (s HoleEntryState) AllQuartersEntered(roster []string) bool {
	for _, id := range roster {
		if _, ok := s.Quarters[id]; !ok {
			return false
		}
	}
	return len(roster) > 0
}

// QuartersSum totals the entered quarters.
func (s HoleEntryState) QuartersSum() int {
	sum := 0
	for _, q := range s.Quarters {
		sum += q
	}
	return sum
}

// QuartersBalanced reports whether the entered quarters cancel out. Quarters
// are zero-sum: every hole's wins and losses must cancel.
func (s HoleEntryState) QuartersBalanced() bool {
	return s.QuartersSum() == 0
}

// RestoreFromHole hydrates entry state from persisted hole data for edit flows.
func (s HoleEntryState) RestoreFromHole(scores, quarters map[string]int, winner, notes string) HoleEntryState {
	s.Scores = copyIntMap(scores)
	s.Quarters = copyIntMap(quarters)
	s.Winner = winner
	s.Notes = notes
	return s
}

// Reset clears the hole's data but preserves the display order.
func (s HoleEntryState) Reset() HoleEntryState {
	return NewHoleEntryState(s.DisplayOrder)
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
