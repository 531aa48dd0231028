package rpspresenter

import (
	"strings"
	"testing"
	"time"

	"github.com/kapu/kakao-rps-bot-go/internal/msgcat"
	"github.com/kapu/kakao-rps-bot-go/pkg/rpsdto"
)

type staticPrefix struct{ p string }

func (s staticPrefix) Prefix() string { return s.p }

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(staticPrefix{p: "!"}, cat)
}

func TestFormatterStart(t *testing.T) {
	f := newTestFormatter(t)
	state := &rpsdto.SessionState{PlayerName: "Alice", Round: 1}
	out := f.Start(state, false)
	if !strings.Contains(out, "Alice") {
		t.Fatalf("start text missing player name: %q", out)
	}
	if !strings.Contains(out, "bomb") {
		t.Fatalf("start text should mention the bomb move: %q", out)
	}
}

func TestFormatterStartResumed(t *testing.T) {
	f := newTestFormatter(t)
	state := &rpsdto.SessionState{PlayerName: "Alice", Round: 2, UserScore: 1}
	out := f.Start(state, true)
	if !strings.Contains(out, "resumed") {
		t.Fatalf("resume text missing resume note: %q", out)
	}
	if !strings.Contains(out, "round 2") {
		t.Fatalf("resume text missing round: %q", out)
	}
}

func TestFormatterRound(t *testing.T) {
	f := newTestFormatter(t)
	summary := &rpsdto.RoundSummary{
		State: &rpsdto.SessionState{Round: 2, UserScore: 1},
		Round: rpsdto.RoundRecord{Round: 1, UserMove: "rock", BotMove: "scissors", Outcome: "user-win"},
	}
	out := f.Round(summary)
	if !strings.Contains(out, "rock") || !strings.Contains(out, "scissors") {
		t.Fatalf("round text missing moves: %q", out)
	}
	if !strings.Contains(out, "you win") {
		t.Fatalf("round text missing outcome: %q", out)
	}
	if strings.Contains(out, "Game over") {
		t.Fatalf("unfinished round should not include a summary: %q", out)
	}
}

func TestFormatterRoundForfeit(t *testing.T) {
	f := newTestFormatter(t)
	summary := &rpsdto.RoundSummary{
		State: &rpsdto.SessionState{Round: 2, BotScore: 1},
		Round: rpsdto.RoundRecord{Round: 1, RawInput: "lizard", Outcome: "forfeit"},
	}
	out := f.Round(summary)
	if !strings.Contains(out, "lizard") {
		t.Fatalf("forfeit text missing raw input: %q", out)
	}
	if !strings.Contains(out, "forfeit") {
		t.Fatalf("forfeit text missing forfeit note: %q", out)
	}
}

func TestFormatterRoundFinished(t *testing.T) {
	f := newTestFormatter(t)
	summary := &rpsdto.RoundSummary{
		State: &rpsdto.SessionState{
			Round: 4, UserScore: 2, BotScore: 1, GameOver: true, Winner: "user",
		},
		Round:       rpsdto.RoundRecord{Round: 3, UserMove: "paper", BotMove: "rock", Outcome: "user-win"},
		Finished:    true,
		GameID:      7,
		Profile:     &rpsdto.RPSProfile{Rating: 1212, GamesPlayed: 1, Wins: 1},
		RatingDelta: 12,
	}
	out := f.Round(summary)
	if !strings.Contains(out, "Game over") {
		t.Fatalf("finished round missing summary: %q", out)
	}
	if !strings.Contains(out, "you won") {
		t.Fatalf("summary missing result: %q", out)
	}
	if !strings.Contains(out, "#7") {
		t.Fatalf("summary missing game id: %q", out)
	}
	if !strings.Contains(out, "1212") || !strings.Contains(out, "▲12") {
		t.Fatalf("summary missing rating line: %q", out)
	}
}

func TestFormatterStatus(t *testing.T) {
	f := newTestFormatter(t)
	state := &rpsdto.SessionState{
		PlayerName: "Alice", Round: 3, UserScore: 1, BotScore: 1, UserBombUsed: true,
	}
	out := f.Status(state)
	if !strings.Contains(out, "round 3") {
		t.Fatalf("status missing round: %q", out)
	}
	if !strings.Contains(out, "spent") || !strings.Contains(out, "available") {
		t.Fatalf("status missing bomb state: %q", out)
	}
}

func TestFormatterHistory(t *testing.T) {
	f := newTestFormatter(t)

	if out := f.History(nil); !strings.Contains(out, "No finished games") {
		t.Fatalf("empty history text = %q", out)
	}

	games := []*rpsdto.RPSGame{{
		ID: 3, Result: "win", UserScore: 2, BotScore: 0, Draws: 1,
		Rounds:  make([]rpsdto.RoundRecord, 3),
		EndedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}}
	out := f.History(games)
	if !strings.Contains(out, "#3") {
		t.Fatalf("history missing game id: %q", out)
	}
	if !strings.Contains(out, "!rps game") {
		t.Fatalf("history missing detail hint: %q", out)
	}
}

func TestFormatterGameDetail(t *testing.T) {
	f := newTestFormatter(t)
	g := &rpsdto.RPSGame{
		ID: 9, Result: "loss", UserScore: 0, BotScore: 2, Draws: 1,
		Rounds: []rpsdto.RoundRecord{
			{Round: 1, UserMove: "rock", BotMove: "paper", Outcome: "bot-win"},
			{Round: 2, RawInput: "nope", Outcome: "forfeit"},
			{Round: 3, UserMove: "bomb", BotMove: "bomb", Outcome: "draw"},
		},
	}
	out := f.Game(g)
	for _, want := range []string{"#9", "rock vs paper", `"nope"`, "bomb vs bomb"} {
		if !strings.Contains(out, want) {
			t.Fatalf("game detail missing %q: %q", want, out)
		}
	}
}

func TestFormatterHelpUsesPrefix(t *testing.T) {
	f := newTestFormatter(t)
	out := f.Help()
	for _, want := range []string{"!rps start", "!rps status", "!rps profile"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q: %q", want, out)
		}
	}
}

func TestFormatterProfile(t *testing.T) {
	f := newTestFormatter(t)

	if out := f.Profile(nil); !strings.Contains(out, "No profile") {
		t.Fatalf("nil profile text = %q", out)
	}

	p := &rpsdto.RPSProfile{
		Rating: 1188, GamesPlayed: 3, Wins: 1, Losses: 2,
		Streak: 2, StreakType: "loss",
		LastPlayedAt: time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC),
	}
	out := f.Profile(p)
	if !strings.Contains(out, "1188") {
		t.Fatalf("profile missing rating: %q", out)
	}
	if !strings.Contains(out, "Last played") {
		t.Fatalf("profile missing last played: %q", out)
	}
}
