package engine

import "testing"

func TestInvisibleAardvarkForFourPlayers(t *testing.T) {
	s := NewAardvarkState([]string{"p1", "p2", "p3", "p4"})
	if !s.Invisible || s.AardvarkID != "" {
		t.Errorf("Expected invisible aardvark for four players, got %+v", s)
	}

	// Negotiation is a no-op in invisible games
	s = ReduceAardvark(s, RequestTeam{Team: "team1"})
	if s.RequestedTeam != "" {
		t.Error("Invisible aardvark cannot request a team")
	}
}

func TestAardvarkAccept(t *testing.T) {
	s := NewAardvarkState([]string{"p1", "p2", "p3", "p4", "p5"})
	if s.Invisible || s.AardvarkID != "p5" {
		t.Fatalf("Expected p5 as aardvark, got %+v", s)
	}

	s = ReduceAardvark(s, RequestTeam{Team: "team1"})
	s = ReduceAardvark(s, AcceptAardvark{Team: "team1"})
	if s.AcceptedBy != "team1" || s.RequestedTeam != "" {
		t.Errorf("Expected accepted by team1, got %+v", s)
	}
	if s.Multiplier != 1 {
		t.Errorf("Accepting must not change the multiplier, got %d", s.Multiplier)
	}

	// Once accepted, further negotiation is a no-op
	s = ReduceAardvark(s, RequestTeam{Team: "team2"})
	if s.RequestedTeam != "" {
		t.Error("Expected request after acceptance to be a no-op")
	}
}

func TestAardvarkTossDoubles(t *testing.T) {
	s := NewAardvarkState([]string{"p1", "p2", "p3", "p4", "p5"})

	s = ReduceAardvark(s, RequestTeam{Team: "team1"})
	s = ReduceAardvark(s, TossAardvark{Team: "team1"})
	if s.Multiplier != 2 {
		t.Errorf("Expected multiplier 2 after one toss, got %d", s.Multiplier)
	}
	if s.OnOwn {
		t.Error("One toss does not put the aardvark on its own")
	}

	// A team can only toss a live request aimed at it
	s = ReduceAardvark(s, TossAardvark{Team: "team2"})
	if s.Multiplier != 2 {
		t.Errorf("Expected toss without request to be a no-op, got %d", s.Multiplier)
	}

	s = ReduceAardvark(s, RequestTeam{Team: "team2"})
	s = ReduceAardvark(s, TossAardvark{Team: "team2"})
	if s.Multiplier != 4 {
		t.Errorf("Expected multiplier 4 after both tosses, got %d", s.Multiplier)
	}
	if !s.OnOwn {
		t.Error("Tossed by both sides, the aardvark plays alone")
	}
}

func TestAardvarkResetForHole(t *testing.T) {
	s := NewAardvarkState([]string{"p1", "p2", "p3", "p4", "p5"})
	s = ReduceAardvark(s, RequestTeam{Team: "team1"})
	s = ReduceAardvark(s, TossAardvark{Team: "team1"})

	s = ReduceAardvark(s, ResetAardvarkForHole{})
	if s.Multiplier != 1 || len(s.TossedBy) != 0 || s.OnOwn || s.RequestedTeam != "" {
		t.Errorf("Expected per-hole state cleared, got %+v", s)
	}
	if s.AardvarkID != "p5" {
		t.Error("Reset must keep roster facts")
	}
}
