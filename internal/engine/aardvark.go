package engine

// AardvarkState tracks the fifth player's hole-by-hole team negotiation.
// The aardvark asks to join a side; the side either accepts or tosses. Every
// toss doubles the aardvark's wager multiplier, and an aardvark tossed by
// both sides plays the hole alone against the field. Four-player games carry
// the invisible aardvark instead, which only affects Vinnie's bookkeeping.
type AardvarkState struct {
	AardvarkID    string   `json:"aardvark_id,omitempty"`
	Invisible     bool     `json:"invisible"`
	RequestedTeam string   `json:"requested_team,omitempty"`
	AcceptedBy    string   `json:"accepted_by,omitempty"`
	TossedBy      []string `json:"tossed_by,omitempty"`
	Multiplier    int      `json:"multiplier"`
	OnOwn         bool     `json:"on_own"`
}

// NewAardvarkState initializes aardvark state for a roster. Rosters of four
// get the invisible aardvark; the fifth player in rotation order becomes the
// real one.
func NewAardvarkState(rotation []string) AardvarkState {
	s := AardvarkState{Multiplier: 1}
	if len(rotation) <= 4 {
		s.Invisible = true
		return s
	}
	s.AardvarkID = rotation[4]
	return s
}

// AardvarkAction is the closed set of aardvark transitions.
type AardvarkAction interface{ aardvarkAction() }

// RequestTeam is the aardvark asking to join a side ("team1" or "team2").
type RequestTeam struct{ Team string }

// AcceptAardvark is a side taking the aardvark on.
type AcceptAardvark struct{ Team string }

// TossAardvark is a side rejecting the aardvark, doubling its multiplier.
type TossAardvark struct{ Team string }

// ResetAardvarkForHole clears per-hole negotiation but keeps roster facts.
type ResetAardvarkForHole struct{}

func (RequestTeam) aardvarkAction()          {}
func (AcceptAardvark) aardvarkAction()       {}
func (TossAardvark) aardvarkAction()         {}
func (ResetAardvarkForHole) aardvarkAction() {}

// ReduceAardvark applies an aardvark action. Invisible-aardvark games have no
// negotiation; every action but the reset is an identity no-op there.
func ReduceAardvark(s AardvarkState, action AardvarkAction) AardvarkState {
	switch a := action.(type) {
	case RequestTeam:
		if s.Invisible || s.AcceptedBy != "" || s.OnOwn {
			return s
		}
		if a.Team != "team1" && a.Team != "team2" {
			return s
		}
		s.RequestedTeam = a.Team
		return s

	case AcceptAardvark:
		if s.Invisible || s.AcceptedBy != "" || s.OnOwn {
			return s
		}
		if a.Team != s.RequestedTeam {
			return s
		}
		s.AcceptedBy = a.Team
		s.RequestedTeam = ""
		return s

	case TossAardvark:
		if s.Invisible || s.AcceptedBy != "" || s.OnOwn {
			return s
		}
		if a.Team != s.RequestedTeam {
			return s
		}
		for _, t := range s.TossedBy {
			if t == a.Team {
				return s
			}
		}
		s.TossedBy = append(append([]string{}, s.TossedBy...), a.Team)
		s.Multiplier *= 2
		s.RequestedTeam = ""
		if len(s.TossedBy) >= 2 {
			s.OnOwn = true
		}
		return s

	case ResetAardvarkForHole:
		s.RequestedTeam = ""
		s.AcceptedBy = ""
		s.TossedBy = nil
		s.Multiplier = 1
		s.OnOwn = false
		return s

	default:
		return s
	}
}
