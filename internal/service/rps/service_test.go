package rps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kapu/kakao-rps-bot-go/internal/game"
	"github.com/kapu/kakao-rps-bot-go/internal/service/cache"
)

func newTestService(t *testing.T, bot game.BotPicker) *Service {
	t.Helper()
	svc, err := NewService(cache.NewMemory(), NewMemoryRepository(), bot, Config{
		SessionTTL:   time.Hour,
		HistoryLimit: 10,
	}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testMeta() SessionMeta {
	return SessionMeta{SessionID: "room-1:alice", Room: "room-1", Sender: "Alice"}
}

func TestStartSessionFresh(t *testing.T) {
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{game.Rock}})
	state, err := svc.StartSession(context.Background(), testMeta())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if state.SessionUUID == "" {
		t.Fatalf("expected session uuid to be assigned")
	}
	if state.Record.Round != 1 || state.Record.GameOver {
		t.Fatalf("unexpected fresh record: %+v", state.Record)
	}
	if state.PlayerName != "Alice" {
		t.Fatalf("player name = %q, want Alice", state.PlayerName)
	}
}

func TestStartSessionResume(t *testing.T) {
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{game.Scissors}})
	ctx := context.Background()
	meta := testMeta()

	first, err := svc.StartSession(ctx, meta)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.Play(ctx, meta, "rock"); err != nil {
		t.Fatalf("Play: %v", err)
	}

	second, err := svc.StartSession(ctx, meta)
	if !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("resume err = %v, want ErrSessionInProgress", err)
	}
	if second.SessionUUID != first.SessionUUID {
		t.Fatalf("resume returned a different session")
	}
	if second.Record.Round != 2 {
		t.Fatalf("resume round = %d, want 2", second.Record.Round)
	}
}

func TestPlayWithoutSession(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Play(context.Background(), testMeta(), "rock"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestPlayFullMatchPersists(t *testing.T) {
	// Bot plays scissors, rock, scissors against bomb, rock, paper:
	// user win, draw, bot win.
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{game.Scissors, game.Rock, game.Scissors}})
	ctx := context.Background()
	meta := testMeta()

	if _, err := svc.StartSession(ctx, meta); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	var last *RoundSummary
	for _, mv := range []string{"bomb", "rock", "paper"} {
		summary, err := svc.Play(ctx, meta, mv)
		if err != nil {
			t.Fatalf("Play(%q): %v", mv, err)
		}
		last = summary
	}

	if !last.Finished {
		t.Fatalf("expected match to finish after 3 rounds")
	}
	if last.GameID == 0 {
		t.Fatalf("expected finished game to be persisted with an id")
	}
	if last.State.Record.UserScore != 1 || last.State.Record.BotScore != 1 || last.State.Record.Draws != 1 {
		t.Fatalf("unexpected final tally: %+v", last.State.Record)
	}
	if last.Profile == nil {
		t.Fatalf("expected profile after finished game")
	}
	if last.Profile.GamesPlayed != 1 || last.Profile.Draws != 1 {
		t.Fatalf("unexpected profile: %+v", last.Profile)
	}
	if last.RatingDelta == 0 {
		// A draw against a weaker-rated bot still shifts the rating.
		t.Fatalf("expected nonzero rating delta")
	}

	// Session should be gone.
	if _, err := svc.Status(ctx, meta); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("status after finish err = %v, want ErrSessionNotFound", err)
	}

	games, err := svc.History(ctx, meta, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("history len = %d, want 1", len(games))
	}
	if games[0].Result != "draw" {
		t.Fatalf("result = %q, want draw", games[0].Result)
	}
	if len(games[0].Rounds) != 3 {
		t.Fatalf("stored rounds = %d, want 3", len(games[0].Rounds))
	}

	got, err := svc.Game(ctx, meta, games[0].ID)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if got.SessionUUID != games[0].SessionUUID {
		t.Fatalf("Game returned a different record")
	}
}

func TestPlayForfeitCountsAgainstUser(t *testing.T) {
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{game.Rock}})
	ctx := context.Background()
	meta := testMeta()

	if _, err := svc.StartSession(ctx, meta); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	summary, err := svc.Play(ctx, meta, "lizard")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if summary.Round.Outcome != game.OutcomeForfeit {
		t.Fatalf("outcome = %q, want forfeit", summary.Round.Outcome)
	}
	if summary.State.Record.BotScore != 1 {
		t.Fatalf("bot score = %d, want 1", summary.State.Record.BotScore)
	}
	if summary.State.Record.Round != 2 {
		t.Fatalf("round = %d, want 2", summary.State.Record.Round)
	}
}

func TestQuitPersistsAsLoss(t *testing.T) {
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{game.Scissors}})
	ctx := context.Background()
	meta := testMeta()

	if _, err := svc.StartSession(ctx, meta); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.Play(ctx, meta, "rock"); err != nil {
		t.Fatalf("Play: %v", err)
	}

	state, err := svc.Quit(ctx, meta)
	if err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if state.Profile == nil || state.Profile.Losses != 1 {
		t.Fatalf("expected quit to record a loss, got %+v", state.Profile)
	}

	if _, err := svc.Status(ctx, meta); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("status after quit err = %v, want ErrSessionNotFound", err)
	}

	games, err := svc.History(ctx, meta, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(games) != 1 || games[0].Result != "quit" {
		t.Fatalf("unexpected history after quit: %+v", games)
	}
}

func TestProfileRatingAcrossGames(t *testing.T) {
	// Bot always plays scissors; user rock-sweeps every match.
	svc := newTestService(t, &game.ScriptedPicker{Script: []game.Move{
		game.Scissors, game.Scissors, game.Scissors,
		game.Scissors, game.Scissors, game.Scissors,
	}})
	ctx := context.Background()
	meta := testMeta()

	for i := 0; i < 2; i++ {
		if _, err := svc.StartSession(ctx, meta); err != nil {
			t.Fatalf("StartSession #%d: %v", i+1, err)
		}
		for _, mv := range []string{"rock", "rock", "rock"} {
			if _, err := svc.Play(ctx, meta, mv); err != nil {
				t.Fatalf("Play #%d %q: %v", i+1, mv, err)
			}
		}
	}

	profile, err := svc.Profile(ctx, meta)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.GamesPlayed != 2 || profile.Wins != 2 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.Streak != 2 || profile.StreakType != "win" {
		t.Fatalf("streak = %d %q, want 2 win", profile.Streak, profile.StreakType)
	}
	if profile.Rating <= defaultPlayerRating {
		t.Fatalf("rating = %d, want above %d after two wins", profile.Rating, defaultPlayerRating)
	}
}

func TestProfileNotFound(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Profile(context.Background(), testMeta()); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestRoomAllowList(t *testing.T) {
	svc, err := NewService(cache.NewMemory(), NewMemoryRepository(), nil, Config{
		SessionTTL:   time.Hour,
		AllowedRooms: []string{"lobby"},
	}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := context.Background()
	blocked := SessionMeta{SessionID: "den:bob", Room: "den", Sender: "Bob"}
	if _, err := svc.StartSession(ctx, blocked); !errors.Is(err, ErrRoomNotAllowed) {
		t.Fatalf("err = %v, want ErrRoomNotAllowed", err)
	}

	allowed := SessionMeta{SessionID: "lobby:bob", Room: "Lobby", Sender: "Bob"}
	if _, err := svc.StartSession(ctx, allowed); err != nil {
		t.Fatalf("StartSession in allowed room: %v", err)
	}
}

func TestDeriveIdentityStable(t *testing.T) {
	a := deriveIdentity(SessionMeta{SessionID: "Room:Alice", Room: "Room", Sender: "Alice"})
	b := deriveIdentity(SessionMeta{SessionID: " room:alice ", Room: " room ", Sender: " alice "})
	if a != b {
		t.Fatalf("identity not normalization-stable: %+v vs %+v", a, b)
	}
	c := deriveIdentity(SessionMeta{SessionID: "other:alice", Room: "other", Sender: "alice"})
	if a.PlayerHash == c.PlayerHash {
		t.Fatalf("player hash should differ per room")
	}
}
