package game

import (
	"errors"
	"testing"
)

func checkScoreInvariant(t *testing.T, g GameRecord) {
	t.Helper()
	if g.UserScore+g.BotScore+g.Draws != g.Round-1 {
		t.Fatalf("score invariant broken: %d+%d+%d != round-1 (%d)", g.UserScore, g.BotScore, g.Draws, g.Round-1)
	}
}

func TestMatchScenarioBombRockPaper(t *testing.T) {
	m := NewMatch(WithBotPicker(&ScriptedPicker{Script: []Move{Scissors, Rock, Scissors}}))

	wantOutcomes := []Outcome{OutcomeUserWin, OutcomeDraw, OutcomeBotWin}
	for i, raw := range []string{"bomb", "rock", "paper"} {
		rec, err := m.SubmitMove(raw)
		if err != nil {
			t.Fatalf("round %d: %v", i+1, err)
		}
		if rec.Outcome != wantOutcomes[i] {
			t.Fatalf("round %d outcome=%s want %s", i+1, rec.Outcome, wantOutcomes[i])
		}
		checkScoreInvariant(t, m.State())
	}

	g := m.State()
	if !g.GameOver {
		t.Fatalf("game not over after %d rounds", MaxRounds)
	}
	if g.UserScore != 1 || g.BotScore != 1 || g.Draws != 1 {
		t.Fatalf("final score %d-%d draws %d, want 1-1 draws 1", g.UserScore, g.BotScore, g.Draws)
	}
	if g.Winner() != "draw" {
		t.Fatalf("winner=%s want draw", g.Winner())
	}
	if len(g.History) != MaxRounds {
		t.Fatalf("history length %d", len(g.History))
	}
}

func TestMatchSecondBombForfeits(t *testing.T) {
	m := NewMatch(WithBotPicker(&ScriptedPicker{Script: []Move{Rock, Rock, Rock}}))

	rec, err := m.SubmitMove("bomb")
	if err != nil || rec.Outcome != OutcomeUserWin {
		t.Fatalf("first bomb: rec=%+v err=%v", rec, err)
	}
	if !m.State().UserBombUsed {
		t.Fatalf("user bomb flag not latched")
	}

	rec, err = m.SubmitMove("bomb")
	if err != nil {
		t.Fatalf("second bomb: %v", err)
	}
	if rec.Outcome != OutcomeForfeit || rec.UserMove != "" {
		t.Fatalf("second bomb not forfeited: %+v", rec)
	}
	g := m.State()
	if g.Round != 3 || g.BotScore != 1 {
		t.Fatalf("forfeit did not consume round and score for bot: %+v", g)
	}
	checkScoreInvariant(t, g)
}

func TestMatchUnknownTokenForfeits(t *testing.T) {
	m := NewMatch()
	rec, err := m.SubmitMove("xyz")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if rec.Outcome != OutcomeForfeit || rec.RawInput != "xyz" {
		t.Fatalf("unexpected record %+v", rec)
	}
	g := m.State()
	if g.Round != 2 || g.BotScore != 1 {
		t.Fatalf("round not advanced on forfeit: %+v", g)
	}
	checkScoreInvariant(t, g)
}

func TestMatchTerminalIsAbsorbing(t *testing.T) {
	m := NewMatch(WithBotPicker(&ScriptedPicker{Script: []Move{Rock, Rock, Rock}}))
	for i := 0; i < MaxRounds; i++ {
		if _, err := m.SubmitMove("paper"); err != nil {
			t.Fatalf("round %d: %v", i+1, err)
		}
	}
	before := m.State()
	if !before.GameOver {
		t.Fatalf("expected terminal state")
	}
	if _, err := m.SubmitMove("rock"); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
	after := m.State()
	if len(after.History) != len(before.History) || after.Round != before.Round {
		t.Fatalf("terminal submit mutated state: %+v vs %+v", before, after)
	}
}

func TestMatchStateSnapshotIsolated(t *testing.T) {
	m := NewMatch(WithBotPicker(&ScriptedPicker{Script: []Move{Rock}}))
	if _, err := m.SubmitMove("rock"); err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	a := m.State()
	b := m.State()
	if a.Round != b.Round || a.Draws != b.Draws || len(a.History) != len(b.History) {
		t.Fatalf("snapshots differ: %+v vs %+v", a, b)
	}
	// mutating a snapshot's history must not leak back
	a.History[0].Outcome = OutcomeUserWin
	if got := m.State().History[0].Outcome; got != OutcomeDraw {
		t.Fatalf("snapshot mutation leaked into match state: %s", got)
	}
}

func TestMatchBotBombLatch(t *testing.T) {
	m := NewMatch(WithBotPicker(&ScriptedPicker{Script: []Move{Bomb, Bomb, Rock}}))
	if _, err := m.SubmitMove("rock"); err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if !m.State().BotBombUsed {
		t.Fatalf("bot bomb flag not latched")
	}
	rec, err := m.SubmitMove("rock")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if rec.BotMove == Bomb {
		t.Fatalf("bot played bomb twice")
	}
}

func TestRandomPickerNeverReplaysBomb(t *testing.T) {
	p := NewRandomPicker()
	for i := 0; i < 200; i++ {
		if mv := p.Pick(true); mv == Bomb {
			t.Fatalf("random picker returned bomb after use")
		}
	}
}
