// Package scoring enforces the defining invariant of the wagering game:
// quarters are zero-sum. For every hole with any data entered, the quarters
// across all players must cancel out exactly.
package scoring

import "sort"

// HoleValidation is the verdict for a single hole. A hole with no entries at
// all is vacuously valid (not yet played); a hole with partial entries or a
// nonzero sum is not.
type HoleValidation struct {
	Hole           int      `json:"hole"`
	Valid          bool     `json:"valid"`
	Sum            int      `json:"sum"`
	HasData        bool     `json:"has_data"`
	MissingPlayers []string `json:"missing_players,omitempty"`
	EnteredPlayers []string `json:"entered_players,omitempty"`
}

// Validator checks quarters across a round. Quarters are keyed by hole number
// (1..18), then by player ID.
type Validator struct {
	roster   []string
	quarters map[int]map[string]int
}

// NewValidator returns a validator for the given roster.
func NewValidator(roster []string) *Validator {
	return &Validator{
		roster:   append([]string{}, roster...),
		quarters: make(map[int]map[string]int),
	}
}

// SetHoleQuarters records the quarters entered for a hole. A nil or empty map
// marks the hole as untouched.
func (v *Validator) SetHoleQuarters(hole int, quarters map[string]int) {
	if len(quarters) == 0 {
		delete(v.quarters, hole)
		return
	}
	copied := make(map[string]int, len(quarters))
	for id, q := range quarters {
		copied[id] = q
	}
	v.quarters[hole] = copied
}

// ValidateHole checks one hole against the zero-sum invariant.
func (v *Validator) ValidateHole(hole int) HoleValidation {
	result := HoleValidation{Hole: hole}

	entries := v.quarters[hole]
	if len(entries) == 0 {
		// Not yet played: vacuously valid
		result.Valid = true
		return result
	}

	result.HasData = true
	for _, id := range v.roster {
		if q, ok := entries[id]; ok {
			result.Sum += q
			result.EnteredPlayers = append(result.EnteredPlayers, id)
		} else {
			result.MissingPlayers = append(result.MissingPlayers, id)
		}
	}
	result.Valid = result.Sum == 0 && len(result.MissingPlayers) == 0
	return result
}

// ValidateUpToHole validates holes 1..max in order.
func (v *Validator) ValidateUpToHole(max int) []HoleValidation {
	if max > 18 {
		max = 18
	}
	var results []HoleValidation
	for h := 1; h <= max; h++ {
		results = append(results, v.ValidateHole(h))
	}
	return results
}

// ValidateAllHoles validates the full 18-hole round.
func (v *Validator) ValidateAllHoles() []HoleValidation {
	return v.ValidateUpToHole(18)
}

// InvalidHoles lists the hole numbers that fail validation.
func (v *Validator) InvalidHoles() []int {
	var invalid []int
	for _, r := range v.ValidateAllHoles() {
		if !r.Valid {
			invalid = append(invalid, r.Hole)
		}
	}
	return invalid
}

// ReadyToComplete gates round finalization: every hole with data must balance.
func (v *Validator) ReadyToComplete() bool {
	return len(v.InvalidHoles()) == 0
}

// Standings sums each player's quarters across all holes.
func (v *Validator) Standings() map[string]int {
	standings := make(map[string]int, len(v.roster))
	for _, id := range v.roster {
		standings[id] = 0
	}
	for _, entries := range v.quarters {
		for id, q := range entries {
			standings[id] += q
		}
	}
	return standings
}

// StandingsSumToZero is a derived sanity check. It must hold whenever
// ReadyToComplete holds; a violation indicates a data-integrity bug, not a
// valid game state.
func (v *Validator) StandingsSumToZero() bool {
	sum := 0
	for _, q := range v.Standings() {
		sum += q
	}
	return sum == 0
}

// Trailing returns the player with the fewest quarters, ties broken by roster
// order. Used to designate the goat entering hoepfinger.
func (v *Validator) Trailing() string {
	if len(v.roster) == 0 {
		return ""
	}
	standings := v.Standings()
	ordered := append([]string{}, v.roster...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return standings[ordered[i]] < standings[ordered[j]]
	})
	return ordered[0]
}
