package game

import "testing"

func TestParseMoveSynonyms(t *testing.T) {
	cases := map[string]Move{
		"rock":     Rock,
		"  ROCK  ": Rock,
		"r":        Rock,
		"stone":    Rock,
		"Paper":    Paper,
		"p":        Paper,
		"scissors": Scissors,
		"scissor":  Scissors,
		"s":        Scissors,
		"bomb":     Bomb,
		"B":        Bomb,
	}
	for raw, want := range cases {
		mv, ok := ParseMove(raw, false)
		if !ok || mv != want {
			t.Fatalf("ParseMove(%q)=(%s,%v) want (%s,true)", raw, mv, ok, want)
		}
	}
}

func TestParseMoveRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "xyz", "rockk", "lizard", "spock", "bombb"} {
		if mv, ok := ParseMove(raw, false); ok {
			t.Fatalf("ParseMove(%q) accepted as %s", raw, mv)
		}
	}
}

func TestParseMoveBombGate(t *testing.T) {
	if _, ok := ParseMove("bomb", true); ok {
		t.Fatalf("bomb accepted after bomb flag was set")
	}
	// other moves remain legal once the bomb is spent
	if mv, ok := ParseMove("rock", true); !ok || mv != Rock {
		t.Fatalf("rock rejected with bomb flag set")
	}
}

func TestMovesRespectsBombFlag(t *testing.T) {
	if got := Moves(false); len(got) != 4 {
		t.Fatalf("expected 4 moves with bomb available, got %v", got)
	}
	for _, mv := range Moves(true) {
		if mv == Bomb {
			t.Fatalf("Moves(true) still offers bomb")
		}
	}
}
