// Package engine implements the Wolf Goat Pig rules as pure reducers.
// Every reducer is a function from (state, action) to state: no I/O, no
// side effects, and unknown actions return the state unchanged. Callers
// are responsible for recording the resulting transitions as betting events.
package engine

import "sort"

// Player is a member of the playing group. Identity is ID; rotation order
// uses TeeOrder when any player has one, else insertion order.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap"`
	TeeOrder int     `json:"tee_order,omitempty"`
}

// SystemActor marks events generated by the keeper itself rather than a player.
const SystemActor = "system"

// RotationOrder returns player IDs sorted by tee order when any player
// carries one, otherwise in the order given.
func RotationOrder(players []Player) []string {
	ordered := make([]Player, len(players))
	copy(ordered, players)

	hasTeeOrder := false
	for _, p := range ordered {
		if p.TeeOrder != 0 {
			hasTeeOrder = true
			break
		}
	}
	if hasTeeOrder {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].TeeOrder < ordered[j].TeeOrder
		})
	}

	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}
	return ids
}
