package engine

// BettingState is the per-hole wager state machine. The current wager only
// increases within a hole; it resets between holes via ResetForHole.
type BettingState struct {
	BaseWager        int    `json:"base_wager"`
	CurrentWager     int    `json:"current_wager"`
	NextHoleWager    int    `json:"next_hole_wager"`
	JoesSpecialWager int    `json:"joes_special_wager,omitempty"`
	FloatInvokedBy   string `json:"float_invoked_by,omitempty"`
	OptionInvokedBy  string `json:"option_invoked_by,omitempty"`
	CarryOver        bool   `json:"carry_over"`
	CarryOverApplied bool   `json:"carry_over_applied"`
	VinniesVariation bool   `json:"vinnies_variation"`
	OptionActive     bool   `json:"option_active"`
	OptionTurnedOff  bool   `json:"option_turned_off"`
	DuncanInvoked    bool   `json:"duncan_invoked"`
}

// NewBettingState returns betting state at the start of a game.
func NewBettingState(baseWager int) BettingState {
	if baseWager <= 0 {
		baseWager = 1
	}
	return BettingState{
		BaseWager:     baseWager,
		CurrentWager:  baseWager,
		NextHoleWager: baseWager,
	}
}

// BettingAction is the closed set of wager transitions.
type BettingAction interface{ bettingAction() }

// Double offers were accepted: the wager doubles. There is no once-per-hole
// guard; a hole may be doubled repeatedly.
type Double struct{}

// Float doubles the wager on the captain's invocation. Once per hole.
type Float struct{ Player string }

// Option activates the option for the trailing captain. Does not change the
// wager by itself.
type Option struct{ Player string }

// OptionOff turns the option off for the remainder of the hole.
type OptionOff struct{}

// Duncan doubles the wager for a solo captain going for the 3-for-2. Once per hole.
type Duncan struct{}

// JoesSpecial sets the hoepfinger opening wager chosen by the goat.
// Legal values are 2, 4 or 8 quarters, or the natural wager when higher.
type JoesSpecial struct{ Quarters int }

// MarkCarryOver records that the hole ended in a push; the double is applied
// at the next hole's setup, not here.
type MarkCarryOver struct{}

// ApplyCarryOver doubles the fresh hole's wager for a carried-over push.
type ApplyCarryOver struct{}

// ResetForHole rolls NextHoleWager into CurrentWager and clears the one-shot
// per-hole flags. This is the transition executed between holes.
type ResetForHole struct{}

// ResetAll reinitializes betting to the base wager.
type ResetAll struct{}

func (Double) bettingAction()         {}
func (Float) bettingAction()          {}
func (Option) bettingAction()         {}
func (OptionOff) bettingAction()      {}
func (Duncan) bettingAction()         {}
func (JoesSpecial) bettingAction()    {}
func (MarkCarryOver) bettingAction()  {}
func (ApplyCarryOver) bettingAction() {}
func (ResetForHole) bettingAction()   {}
func (ResetAll) bettingAction()       {}

// ReduceBetting applies a betting action. Illegal transitions are identity
// no-ops; the function never fails.
func ReduceBetting(s BettingState, action BettingAction) BettingState {
	switch a := action.(type) {
	case Double:
		s.CurrentWager *= 2
		return s

	case Float:
		if s.FloatInvokedBy != "" {
			return s
		}
		s.FloatInvokedBy = a.Player
		s.CurrentWager *= 2
		return s

	case Option:
		if s.OptionTurnedOff {
			return s
		}
		s.OptionActive = true
		s.OptionInvokedBy = a.Player
		return s

	case OptionOff:
		s.OptionActive = false
		s.OptionTurnedOff = true
		return s

	case Duncan:
		if s.DuncanInvoked {
			return s
		}
		s.DuncanInvoked = true
		s.CurrentWager *= 2
		return s

	case JoesSpecial:
		if a.Quarters != 2 && a.Quarters != 4 && a.Quarters != 8 && a.Quarters != s.CurrentWager {
			return s
		}
		if a.Quarters < s.CurrentWager {
			return s
		}
		s.JoesSpecialWager = a.Quarters
		s.CurrentWager = a.Quarters
		return s

	case MarkCarryOver:
		s.CarryOver = true
		return s

	case ApplyCarryOver:
		if !s.CarryOver {
			return s
		}
		s.CurrentWager *= 2
		s.CarryOver = false
		s.CarryOverApplied = true
		return s

	case ResetForHole:
		s.CurrentWager = s.NextHoleWager
		s.NextHoleWager = s.BaseWager
		s.JoesSpecialWager = 0
		s.FloatInvokedBy = ""
		s.OptionInvokedBy = ""
		s.OptionActive = false
		s.OptionTurnedOff = false
		s.DuncanInvoked = false
		s.CarryOverApplied = false
		return s

	case ResetAll:
		return NewBettingState(s.BaseWager)

	default:
		return s
	}
}
