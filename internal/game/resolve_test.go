package game

import "testing"

func TestResolveBeatsTable(t *testing.T) {
	cases := []struct {
		user, bot Move
		want      Outcome
	}{
		{Rock, Scissors, OutcomeUserWin},
		{Scissors, Paper, OutcomeUserWin},
		{Paper, Rock, OutcomeUserWin},
		{Scissors, Rock, OutcomeBotWin},
		{Paper, Scissors, OutcomeBotWin},
		{Rock, Paper, OutcomeBotWin},
		{Rock, Rock, OutcomeDraw},
		{Paper, Paper, OutcomeDraw},
		{Scissors, Scissors, OutcomeDraw},
	}
	for _, c := range cases {
		if got := Resolve(c.user, c.bot); got != c.want {
			t.Fatalf("Resolve(%s,%s)=%s want %s", c.user, c.bot, got, c.want)
		}
	}
}

func TestResolveBombRules(t *testing.T) {
	for _, mv := range []Move{Rock, Paper, Scissors} {
		if got := Resolve(Bomb, mv); got != OutcomeUserWin {
			t.Fatalf("Resolve(bomb,%s)=%s want user-win", mv, got)
		}
		if got := Resolve(mv, Bomb); got != OutcomeBotWin {
			t.Fatalf("Resolve(%s,bomb)=%s want bot-win", mv, got)
		}
	}
	if got := Resolve(Bomb, Bomb); got != OutcomeDraw {
		t.Fatalf("Resolve(bomb,bomb)=%s want draw", got)
	}
}

func TestResolveRoleSwapSymmetry(t *testing.T) {
	all := []Move{Rock, Paper, Scissors, Bomb}
	flip := map[Outcome]Outcome{
		OutcomeUserWin: OutcomeBotWin,
		OutcomeBotWin:  OutcomeUserWin,
		OutcomeDraw:    OutcomeDraw,
	}
	for _, a := range all {
		for _, b := range all {
			if got, want := Resolve(b, a), flip[Resolve(a, b)]; got != want {
				t.Fatalf("Resolve(%s,%s)=%s, not complementary to Resolve(%s,%s)", b, a, got, a, b)
			}
		}
	}
}
