package engine

// TeamMode selects between the two mutually exclusive team representations.
type TeamMode string

const (
	ModePartners TeamMode = "partners"
	ModeSolo     TeamMode = "solo"
)

// TeamSnapshot is the persisted form of a hole's teams. Exactly one of the
// partners fields (Team1/Team2) or the solo fields (Captain/Opponents) is
// populated, selected by Type.
type TeamSnapshot struct {
	Type      string   `json:"type"` // "partners" or "solo"
	Team1     []string `json:"team1,omitempty"`
	Team2     []string `json:"team2,omitempty"`
	Captain   string   `json:"captain,omitempty"`
	Opponents []string `json:"opponents,omitempty"`
}

// TeamState holds team assignment for the current hole plus the captain
// rotation for the round. Team2 is never stored: it is always derived as the
// complement of Team1 over the roster.
type TeamState struct {
	Mode          TeamMode `json:"mode"`
	Roster        []string `json:"roster"`
	Team1         []string `json:"team1,omitempty"`
	Captain       string   `json:"captain,omitempty"`
	Opponents     []string `json:"opponents,omitempty"`
	RotationOrder []string `json:"rotation_order"`
	CaptainIndex  int      `json:"captain_index"`
}

// NewTeamState initializes partners mode with the rotation sorted by tee order.
func NewTeamState(players []Player) TeamState {
	roster := make([]string, len(players))
	for i, p := range players {
		roster[i] = p.ID
	}
	return TeamState{
		Mode:          ModePartners,
		Roster:        roster,
		RotationOrder: RotationOrder(players),
	}
}

// Team2 derives the complement of Team1.
func (s TeamState) Team2() []string {
	var team2 []string
	for _, id := range s.Roster {
		if !contains(s.Team1, id) {
			team2 = append(team2, id)
		}
	}
	return team2
}

// ToggleTeam1 flips a player's membership in team 1. Team 1 may never grow to
// the full roster (team 2 would be empty); that toggle is a silent no-op.
func (s TeamState) ToggleTeam1(playerID string) TeamState {
	if !contains(s.Roster, playerID) {
		return s
	}
	if contains(s.Team1, playerID) {
		team1 := make([]string, 0, len(s.Team1))
		for _, id := range s.Team1 {
			if id != playerID {
				team1 = append(team1, id)
			}
		}
		s.Team1 = team1
		return s
	}
	if len(s.Team1)+1 >= len(s.Roster) {
		return s
	}
	s.Team1 = append(append([]string{}, s.Team1...), playerID)
	return s
}

// SetCaptain selects the solo captain and auto-fills opponents as everyone
// else. Selecting the current captain again deselects.
func (s TeamState) SetCaptain(playerID string) TeamState {
	if playerID == s.Captain {
		s.Captain = ""
		s.Opponents = nil
		return s
	}
	if !contains(s.Roster, playerID) {
		return s
	}
	s.Captain = playerID
	var opponents []string
	for _, id := range s.Roster {
		if id != playerID {
			opponents = append(opponents, id)
		}
	}
	s.Opponents = opponents
	return s
}

// SetMode switches representation. The two representations cannot coexist:
// entering solo clears the partner split, entering partners clears the captain.
func (s TeamState) SetMode(mode TeamMode) TeamState {
	if mode != ModePartners && mode != ModeSolo {
		return s
	}
	s.Mode = mode
	if mode == ModeSolo {
		s.Team1 = nil
	} else {
		s.Captain = ""
		s.Opponents = nil
	}
	return s
}

// RotateCaptain advances the captain rotation modulo the player count.
func (s TeamState) RotateCaptain() TeamState {
	if len(s.RotationOrder) == 0 {
		return s
	}
	s.CaptainIndex = (s.CaptainIndex + 1) % len(s.RotationOrder)
	return s
}

// CurrentCaptain returns the player whose turn it is to captain the hole.
func (s TeamState) CurrentCaptain() string {
	if len(s.RotationOrder) == 0 {
		return ""
	}
	return s.RotationOrder[s.CaptainIndex%len(s.RotationOrder)]
}

// TeamsFormed reports whether the hole has a usable team arrangement.
func (s TeamState) TeamsFormed() bool {
	switch s.Mode {
	case ModePartners:
		return len(s.Team1) > 0 && len(s.Team1) < len(s.Roster)
	case ModeSolo:
		return s.Captain != ""
	}
	return false
}

// Snapshot freezes the current arrangement for a hole record. Partners mode
// additionally requires an even split: team 1 must hold floor(n/2) players.
func (s TeamState) Snapshot() (TeamSnapshot, bool) {
	switch s.Mode {
	case ModePartners:
		if len(s.Team1) == 0 || len(s.Team1) != len(s.Roster)/2 {
			return TeamSnapshot{}, false
		}
		return TeamSnapshot{
			Type:  string(ModePartners),
			Team1: append([]string{}, s.Team1...),
			Team2: s.Team2(),
		}, true
	case ModeSolo:
		if s.Captain == "" {
			return TeamSnapshot{}, false
		}
		return TeamSnapshot{
			Type:      string(ModeSolo),
			Captain:   s.Captain,
			Opponents: append([]string{}, s.Opponents...),
		}, true
	}
	return TeamSnapshot{}, false
}

// RestoreFromHole reconstructs mode and teams from a persisted snapshot for
// edit-in-place workflows. Rotation state is untouched.
func (s TeamState) RestoreFromHole(snap TeamSnapshot) TeamState {
	switch snap.Type {
	case string(ModeSolo):
		s.Mode = ModeSolo
		s.Team1 = nil
		s.Captain = snap.Captain
		s.Opponents = append([]string{}, snap.Opponents...)
	default:
		s.Mode = ModePartners
		s.Captain = ""
		s.Opponents = nil
		s.Team1 = append([]string{}, snap.Team1...)
	}
	return s
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
