package rpspresenter

import (
	"errors"

	"github.com/kapu/kakao-rps-bot-go/internal/domain"
	"github.com/kapu/kakao-rps-bot-go/internal/game"
	svc "github.com/kapu/kakao-rps-bot-go/internal/service/rps"
	"github.com/kapu/kakao-rps-bot-go/pkg/rpsdto"
)

func ToDTOState(s *svc.SessionState) *rpsdto.SessionState {
	if s == nil {
		return nil
	}
	return &rpsdto.SessionState{
		SessionUUID:  s.SessionUUID,
		PlayerName:   s.PlayerName,
		Round:        s.Record.Round,
		UserScore:    s.Record.UserScore,
		BotScore:     s.Record.BotScore,
		Draws:        s.Record.Draws,
		UserBombUsed: s.Record.UserBombUsed,
		BotBombUsed:  s.Record.BotBombUsed,
		History:      toDTORounds(s.Record.History),
		GameOver:     s.Record.GameOver,
		Winner:       s.Record.Winner(),
		Profile:      ToDTOProfile(s.Profile),
		RatingDelta:  s.RatingDelta,
		StartedAt:    s.StartedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func ToDTORoundSummary(m *svc.RoundSummary) *rpsdto.RoundSummary {
	if m == nil {
		return nil
	}
	return &rpsdto.RoundSummary{
		State:       ToDTOState(m.State),
		Round:       toDTORound(m.Round),
		Finished:    m.Finished,
		GameID:      m.GameID,
		Profile:     ToDTOProfile(m.Profile),
		RatingDelta: m.RatingDelta,
	}
}

// ToDomainError classifies service errors for the presentation edge. Known
// sentinels become stable codes; anything else is a retryable internal error.
func ToDomainError(err error) *rpsdto.DomainError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, svc.ErrSessionNotFound):
		return &rpsdto.DomainError{Code: "session_not_found", Message: "no match in progress"}
	case errors.Is(err, svc.ErrSessionInProgress):
		return &rpsdto.DomainError{Code: "session_in_progress", Message: "a match is already in progress"}
	case errors.Is(err, svc.ErrGameNotFound):
		return &rpsdto.DomainError{Code: "game_not_found", Message: "no game with that ID"}
	case errors.Is(err, svc.ErrProfileNotFound):
		return &rpsdto.DomainError{Code: "profile_not_found", Message: "no profile yet"}
	case errors.Is(err, svc.ErrRoomNotAllowed):
		return &rpsdto.DomainError{Code: "room_not_allowed", Message: "this room is not allowed"}
	case errors.Is(err, game.ErrMatchOver):
		return &rpsdto.DomainError{Code: "match_over", Message: "the match already finished"}
	default:
		return &rpsdto.DomainError{Code: "internal", Message: "something went wrong, please try again", Retryable: true}
	}
}

func ToDTOProfile(p *domain.RPSProfile) *rpsdto.RPSProfile {
	if p == nil {
		return nil
	}
	cp := *p
	return &rpsdto.RPSProfile{
		PlayerHash:   cp.PlayerHash,
		RoomHash:     cp.RoomHash,
		Rating:       cp.Rating,
		GamesPlayed:  cp.GamesPlayed,
		Wins:         cp.Wins,
		Losses:       cp.Losses,
		Draws:        cp.Draws,
		Streak:       cp.Streak,
		StreakType:   cp.StreakType,
		LastPlayedAt: cp.LastPlayedAt,
		UpdatedAt:    cp.UpdatedAt,
		CreatedAt:    cp.CreatedAt,
	}
}

func ToDTOGames(list []*domain.RPSGame) []*rpsdto.RPSGame {
	out := make([]*rpsdto.RPSGame, 0, len(list))
	for _, g := range list {
		if g == nil {
			continue
		}
		out = append(out, ToDTOGame(g))
	}
	return out
}

func ToDTOGame(g *domain.RPSGame) *rpsdto.RPSGame {
	if g == nil {
		return nil
	}
	gg := *g
	rounds := make([]rpsdto.RoundRecord, 0, len(gg.Rounds))
	for _, r := range gg.Rounds {
		rounds = append(rounds, rpsdto.RoundRecord{
			Round:    r.Round,
			RawInput: r.RawInput,
			UserMove: r.UserMove,
			BotMove:  r.BotMove,
			Outcome:  r.Outcome,
		})
	}
	return &rpsdto.RPSGame{
		ID:          gg.ID,
		SessionUUID: gg.SessionUUID,
		Result:      gg.Result,
		UserScore:   gg.UserScore,
		BotScore:    gg.BotScore,
		Draws:       gg.Draws,
		Rounds:      rounds,
		StartedAt:   gg.StartedAt,
		EndedAt:     gg.EndedAt,
		Duration:    gg.Duration,
	}
}

func toDTORounds(history []game.RoundRecord) []rpsdto.RoundRecord {
	out := make([]rpsdto.RoundRecord, 0, len(history))
	for _, r := range history {
		out = append(out, toDTORound(r))
	}
	return out
}

func toDTORound(r game.RoundRecord) rpsdto.RoundRecord {
	return rpsdto.RoundRecord{
		Round:    r.Round,
		RawInput: r.RawInput,
		UserMove: string(r.UserMove),
		BotMove:  string(r.BotMove),
		Outcome:  string(r.Outcome),
	}
}
