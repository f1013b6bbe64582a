package history

import (
	"testing"

	"wolfgoatpig/internal/engine"
)

func partnersRecord(hole int) HoleRecord {
	return HoleRecord{
		Hole:        hole,
		GrossScores: map[string]int{"p1": 4, "p2": 5, "p3": 4, "p4": 6},
		PointsDelta: map[string]int{"p1": 2, "p2": 2, "p3": -2, "p4": -2},
		Teams: engine.TeamSnapshot{
			Type:  "partners",
			Team1: []string{"p1", "p2"},
			Team2: []string{"p3", "p4"},
		},
		Winner: "team1",
	}
}

func TestStandingsAfterOneHole(t *testing.T) {
	l := NewLog()
	l.AddHole(partnersRecord(1))

	standings := l.Standings()
	want := map[string]int{"p1": 2, "p2": 2, "p3": -2, "p4": -2}
	for id, q := range want {
		if standings[id].Quarters != q {
			t.Errorf("Standings %s: got %d, want %d", id, standings[id].Quarters, q)
		}
	}
}

func TestSoloCount(t *testing.T) {
	l := NewLog()
	l.AddHole(partnersRecord(1))
	l.AddHole(HoleRecord{
		Hole:        2,
		GrossScores: map[string]int{"p1": 3, "p2": 5, "p3": 5, "p4": 5},
		PointsDelta: map[string]int{"p1": 6, "p2": -2, "p3": -2, "p4": -2},
		Teams: engine.TeamSnapshot{
			Type:      "solo",
			Captain:   "p1",
			Opponents: []string{"p2", "p3", "p4"},
		},
		Winner: "captain",
	})

	standings := l.Standings()
	if standings["p1"].SoloCount != 1 {
		t.Errorf("Expected p1 solo count 1, got %d", standings["p1"].SoloCount)
	}
	if standings["p1"].Quarters != 8 {
		t.Errorf("Expected p1 quarters 8, got %d", standings["p1"].Quarters)
	}
	if standings["p2"].SoloCount != 0 {
		t.Errorf("Expected p2 solo count 0, got %d", standings["p2"].SoloCount)
	}
}

func TestUpdateHoleRecomputes(t *testing.T) {
	l := NewLog()
	l.AddHole(partnersRecord(1))

	rec := partnersRecord(1)
	rec.PointsDelta = map[string]int{"p1": 4, "p2": 4, "p3": -4, "p4": -4}
	if err := l.UpdateHole(0, rec); err != nil {
		t.Fatalf("UpdateHole failed: %v", err)
	}
	if got := l.Standings()["p1"].Quarters; got != 4 {
		t.Errorf("Expected recomputed quarters 4, got %d", got)
	}

	if err := l.UpdateHole(5, rec); err == nil {
		t.Error("Expected out-of-range update to fail")
	}
}

func TestSetHistory(t *testing.T) {
	l := NewLog()
	l.AddHole(partnersRecord(1))

	l.SetHistory([]HoleRecord{partnersRecord(1), partnersRecord(2)})
	if l.Len() != 2 {
		t.Errorf("Expected 2 holes, got %d", l.Len())
	}
	if got := l.Standings()["p3"].Quarters; got != -4 {
		t.Errorf("Expected p3 quarters -4, got %d", got)
	}
}

func TestHolesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.AddHole(partnersRecord(1))

	holes := l.Holes()
	holes[0].Winner = "team2"
	if l.Holes()[0].Winner != "team1" {
		t.Error("Expected Holes to return an independent copy")
	}
}
