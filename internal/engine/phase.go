package engine

// Phase is the hole-number-driven game phase.
type Phase string

const (
	PhaseNormal     Phase = "normal"     // holes 1-12
	PhaseVinnies    Phase = "vinnies"    // holes 13-16, Vinnie's Variation rules
	PhaseHoepfinger Phase = "hoepfinger" // holes 17-18, goat placement privilege
	PhaseComplete   Phase = "complete"   // past hole 18
)

// PhaseForHole derives the phase for a hole number. Hole 0 or negative maps
// to normal; that is a defensive default, not a reachable game state.
func PhaseForHole(hole int) Phase {
	switch {
	case hole > 18:
		return PhaseComplete
	case hole >= 17:
		return PhaseHoepfinger
	case hole >= 13:
		return PhaseVinnies
	default:
		return PhaseNormal
	}
}

// PhaseState tracks the current hole and its derived phase flags. Phase never
// drifts independently of CurrentHole; the only override is an explicit
// mid-hole hoepfinger designation, and exiting it recomputes from the hole.
type PhaseState struct {
	Phase            Phase  `json:"phase"`
	IsHoepfinger     bool   `json:"is_hoepfinger"`
	GoatID           string `json:"goat_id,omitempty"`
	VinniesVariation bool   `json:"vinnies_variation"`
	CurrentHole      int    `json:"current_hole"`
}

// NewPhaseState returns phase state at hole 1.
func NewPhaseState() PhaseState {
	return PhaseState{}.SetHole(1)
}

// SetHole moves to the given hole and recomputes every derived flag.
// GoatID is cleared whenever the new phase is not hoepfinger.
func (s PhaseState) SetHole(hole int) PhaseState {
	s.CurrentHole = hole
	s.Phase = PhaseForHole(hole)
	s.IsHoepfinger = s.Phase == PhaseHoepfinger
	s.VinniesVariation = s.Phase == PhaseVinnies
	if !s.IsHoepfinger {
		s.GoatID = ""
	}
	return s
}

// AdvanceHole moves to the next hole.
func (s PhaseState) AdvanceHole() PhaseState {
	return s.SetHole(s.CurrentHole + 1)
}

// EnterHoepfinger designates the goat mid-hole without waiting for the
// hole-number derivation.
func (s PhaseState) EnterHoepfinger(goatID string) PhaseState {
	s.Phase = PhaseHoepfinger
	s.IsHoepfinger = true
	s.VinniesVariation = false
	s.GoatID = goatID
	return s
}

// ExitHoepfinger forces recomputation from the current hole.
func (s PhaseState) ExitHoepfinger() PhaseState {
	return s.SetHole(s.CurrentHole)
}

// HolesUntilHoepfinger counts the holes remaining before the hoepfinger phase.
func (s PhaseState) HolesUntilHoepfinger() int {
	if s.CurrentHole >= 17 {
		return 0
	}
	return 17 - s.CurrentHole
}

// IsLastChance reports whether this is the final Vinnie's hole.
func (s PhaseState) IsLastChance() bool {
	return s.CurrentHole == 16
}

// IsGameComplete reports whether the round is over.
func (s PhaseState) IsGameComplete() bool {
	return s.Phase == PhaseComplete
}
