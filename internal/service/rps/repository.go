package rps

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kapu/kakao-rps-bot-go/internal/domain"
)

var ErrDuplicateGame = errors.New("rps game already exists")

type Repository interface {
	InsertGame(ctx context.Context, game *domain.RPSGame) (int64, error)
	GetRecentGames(ctx context.Context, playerHash string, limit int) ([]*domain.RPSGame, error)
	GetGame(ctx context.Context, id int64, playerHash string) (*domain.RPSGame, error)
	GetGameBySession(ctx context.Context, sessionUUID string, playerHash string) (*domain.RPSGame, error)
	GetProfile(ctx context.Context, playerHash string, roomHash string) (*domain.RPSProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.RPSProfile) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertGame(ctx context.Context, game *domain.RPSGame) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil rps game payload")
	}

	rounds, err := json.Marshal(game.Rounds)
	if err != nil {
		return 0, fmt.Errorf("marshal rounds: %w", err)
	}

	const query = `
		INSERT INTO rps_games (
			session_uuid,
			player_hash,
			room_hash,
			result,
			user_score,
			bot_score,
			draws,
			rounds,
			started_at,
			ended_at,
			duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11)
		ON CONFLICT (session_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(
		ctx,
		query,
		game.SessionUUID,
		game.PlayerHash,
		game.RoomHash,
		game.Result,
		game.UserScore,
		game.BotScore,
		game.Draws,
		rounds,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert rps game: %w", err)
	}
	return id.Int64, nil
}

const gameColumns = `
		id,
		session_uuid,
		player_hash,
		room_hash,
		result,
		user_score,
		bot_score,
		draws,
		rounds,
		started_at,
		ended_at,
		duration_ms`

func scanGame(scan func(dest ...any) error) (*domain.RPSGame, error) {
	var (
		game       domain.RPSGame
		roundsJSON []byte
		durationMS sql.NullInt64
	)
	if err := scan(
		&game.ID,
		&game.SessionUUID,
		&game.PlayerHash,
		&game.RoomHash,
		&game.Result,
		&game.UserScore,
		&game.BotScore,
		&game.Draws,
		&roundsJSON,
		&game.StartedAt,
		&game.EndedAt,
		&durationMS,
	); err != nil {
		return nil, err
	}
	if durationMS.Valid {
		game.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	if err := json.Unmarshal(roundsJSON, &game.Rounds); err != nil {
		return nil, fmt.Errorf("unmarshal rounds: %w", err)
	}
	return &game, nil
}

func (r *repository) GetRecentGames(ctx context.Context, playerHash string, limit int) ([]*domain.RPSGame, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT` + gameColumns + `
		FROM rps_games
		WHERE player_hash = $1
		ORDER BY ended_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, playerHash, limit)
	if err != nil {
		return nil, fmt.Errorf("select rps games: %w", err)
	}
	defer rows.Close()

	games := make([]*domain.RPSGame, 0, limit)
	for rows.Next() {
		game, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan rps game: %w", err)
		}
		games = append(games, game)
	}
	return games, nil
}

func (r *repository) GetGame(ctx context.Context, id int64, playerHash string) (*domain.RPSGame, error) {
	const query = `
		SELECT` + gameColumns + `
		FROM rps_games
		WHERE id = $1 AND player_hash = $2`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, id, playerHash).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select rps game: %w", err)
	}
	return game, nil
}

func (r *repository) GetGameBySession(ctx context.Context, sessionUUID string, playerHash string) (*domain.RPSGame, error) {
	const query = `
		SELECT` + gameColumns + `
		FROM rps_games
		WHERE session_uuid = $1 AND player_hash = $2
		ORDER BY ended_at DESC
		LIMIT 1`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, sessionUUID, playerHash).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select rps game by session: %w", err)
	}
	return game, nil
}

func (r *repository) GetProfile(ctx context.Context, playerHash string, roomHash string) (*domain.RPSProfile, error) {
	const query = `
		SELECT
			player_hash,
			room_hash,
			rating,
			games_played,
			wins,
			losses,
			draws,
			streak,
			streak_type,
			last_played_at,
			updated_at,
			created_at
		FROM rps_profiles
		WHERE player_hash = $1 AND room_hash = $2
		LIMIT 1`

	var profile domain.RPSProfile
	err := r.db.QueryRowContext(ctx, query, playerHash, roomHash).Scan(
		&profile.PlayerHash,
		&profile.RoomHash,
		&profile.Rating,
		&profile.GamesPlayed,
		&profile.Wins,
		&profile.Losses,
		&profile.Draws,
		&profile.Streak,
		&profile.StreakType,
		&profile.LastPlayedAt,
		&profile.UpdatedAt,
		&profile.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select rps profile: %w", err)
	}
	return &profile, nil
}

func (r *repository) UpsertProfile(ctx context.Context, profile *domain.RPSProfile) error {
	if profile == nil {
		return fmt.Errorf("nil rps profile payload")
	}
	const query = `
		INSERT INTO rps_profiles (
			player_hash,
			room_hash,
			rating,
			games_played,
			wins,
			losses,
			draws,
			streak,
			streak_type,
			last_played_at,
			updated_at,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (player_hash, room_hash)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			draws = EXCLUDED.draws,
			streak = EXCLUDED.streak,
			streak_type = EXCLUDED.streak_type,
			last_played_at = EXCLUDED.last_played_at,
			updated_at = NOW()`

	_, err := r.db.ExecContext(
		ctx,
		query,
		profile.PlayerHash,
		profile.RoomHash,
		profile.Rating,
		profile.GamesPlayed,
		profile.Wins,
		profile.Losses,
		profile.Draws,
		profile.Streak,
		profile.StreakType,
		profile.LastPlayedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert rps profile: %w", err)
	}
	return nil
}
