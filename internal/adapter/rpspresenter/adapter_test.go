package rpspresenter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kapu/kakao-rps-bot-go/internal/domain"
	"github.com/kapu/kakao-rps-bot-go/internal/game"
	svc "github.com/kapu/kakao-rps-bot-go/internal/service/rps"
)

func TestToDTOStateCopiesHistory(t *testing.T) {
	m := game.NewMatch(game.WithBotPicker(&game.ScriptedPicker{Script: []game.Move{game.Scissors}}))
	if _, err := m.SubmitMove("rock"); err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	state := &svc.SessionState{
		SessionUUID: "u-1",
		PlayerName:  "Alice",
		Record:      m.State(),
		StartedAt:   time.Now(),
	}
	dto := ToDTOState(state)
	if dto.Round != 2 || dto.UserScore != 1 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(dto.History) != 1 || dto.History[0].Outcome != "user-win" {
		t.Fatalf("history not carried over: %+v", dto.History)
	}
	if dto.Winner != "user" {
		t.Fatalf("winner = %q, want user", dto.Winner)
	}
}

func TestToDTOGameNil(t *testing.T) {
	if ToDTOGame(nil) != nil {
		t.Fatalf("nil game should map to nil dto")
	}
	if got := ToDTOGames([]*domain.RPSGame{nil}); len(got) != 0 {
		t.Fatalf("nil entries should be skipped, got %d", len(got))
	}
}

func TestToDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{svc.ErrSessionNotFound, "session_not_found"},
		{svc.ErrGameNotFound, "game_not_found"},
		{svc.ErrRoomNotAllowed, "room_not_allowed"},
		{game.ErrMatchOver, "match_over"},
		{fmt.Errorf("wrap: %w", svc.ErrProfileNotFound), "profile_not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		got := ToDomainError(tc.err)
		if got.Code != tc.code {
			t.Fatalf("ToDomainError(%v).Code = %q, want %q", tc.err, got.Code, tc.code)
		}
	}
	if ToDomainError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}
