package rps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/kakao-rps-bot-go/internal/domain"
	"github.com/kapu/kakao-rps-bot-go/internal/game"
	"github.com/kapu/kakao-rps-bot-go/internal/service/cache"
)

var (
	ErrSessionNotFound   = errors.New("rps session not found")
	ErrSessionInProgress = errors.New("rps session already in progress")
	ErrGameNotFound      = errors.New("rps game not found")
	ErrProfileNotFound   = errors.New("rps profile not found")
	ErrRoomNotAllowed    = errors.New("rps room not allowed")
)

const (
	defaultPlayerRating  = 1200
	botApproxRating      = 1000
	kFactor              = 24
	profileCacheTTL      = 6 * time.Hour
	maxHistoryLimit      = 50
	playerLabelRuneLimit = 24
	defaultPlayerLabel   = "Player"
)

// SessionMeta identifies who is playing and where.
type SessionMeta struct {
	SessionID string
	Room      string
	Sender    string
}

type sessionIdentity struct {
	SessionID  string
	RoomHash   string
	PlayerHash string
}

type Config struct {
	SessionTTL   time.Duration
	HistoryLimit int
	AllowedRooms []string
}

// Service orchestrates per-player RPS-Plus matches: session lifecycle in the
// cache, round play through the game core, finished games and profiles in the
// repository.
type Service struct {
	cache        *cache.CacheService
	repo         Repository
	bot          game.BotPicker
	cfg          Config
	allowedRooms map[string]struct{}
	logger       *zap.Logger
}

// sessionPayload is the cached state of an in-flight match. Committed rounds
// are the only authority; scores are rebuilt by replaying them through the
// game core.
type sessionPayload struct {
	SessionUUID string             `json:"session_uuid"`
	PlayerHash  string             `json:"player_hash"`
	RoomHash    string             `json:"room_hash"`
	PlayerName  string             `json:"player_name,omitempty"`
	Rounds      []game.RoundRecord `json:"rounds"`
	StartedAt   time.Time          `json:"started_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// SessionState is a read model of one session for the presentation layer.
type SessionState struct {
	SessionUUID string
	PlayerHash  string
	RoomHash    string
	PlayerName  string
	Record      game.GameRecord
	Profile     *domain.RPSProfile
	RatingDelta int
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// RoundSummary reports one processed turn.
type RoundSummary struct {
	State       *SessionState
	Round       game.RoundRecord
	Finished    bool
	GameID      int64
	Profile     *domain.RPSProfile
	RatingDelta int
}

func NewService(cacheSvc *cache.CacheService, repo Repository, bot game.BotPicker, cfg Config, logger *zap.Logger) (*Service, error) {
	if cacheSvc == nil {
		return nil, fmt.Errorf("cache service is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("rps repository is required")
	}
	if bot == nil {
		bot = game.NewRandomPicker()
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be greater than 0")
	}
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > maxHistoryLimit {
		cfg.HistoryLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allowedRooms := make(map[string]struct{})
	for _, room := range cfg.AllowedRooms {
		normalized := strings.ToLower(strings.TrimSpace(room))
		if normalized == "" {
			continue
		}
		allowedRooms[normalized] = struct{}{}
	}

	return &Service{
		cache: cacheSvc,
		repo:  repo,
		bot:   bot,
		cfg: Config{
			SessionTTL:   cfg.SessionTTL,
			HistoryLimit: cfg.HistoryLimit,
			AllowedRooms: append([]string(nil), cfg.AllowedRooms...),
		},
		allowedRooms: allowedRooms,
		logger:       logger,
	}, nil
}

// StartSession creates a fresh match for the sender, or resumes the one
// already in flight. A resume returns the current state together with
// ErrSessionInProgress so the adapter can phrase it accordingly.
func (s *Service) StartSession(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}

	identity := deriveIdentity(meta)

	existing, err := s.loadSession(ctx, identity.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		state := s.stateFromPayload(existing)
		s.applyPlayerName(state, existing, meta)
		if profile, profErr := s.fetchProfile(ctx, identity, true); profErr == nil {
			state.Profile = profile
		}
		return state, ErrSessionInProgress
	}

	profile, err := s.fetchProfile(ctx, identity, false)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	payload := &sessionPayload{
		SessionUUID: uuid.NewString(),
		PlayerHash:  identity.PlayerHash,
		RoomHash:    identity.RoomHash,
		PlayerName:  normalizePlayerLabel(meta.Sender),
		Rounds:      []game.RoundRecord{},
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.saveSession(ctx, identity.SessionID, payload); err != nil {
		return nil, err
	}

	state := s.stateFromPayload(payload)
	s.applyPlayerName(state, payload, meta)
	state.Profile = profile
	return state, nil
}

// Play processes one move for the sender's active session.
func (s *Service) Play(ctx context.Context, meta SessionMeta, rawMove string) (*RoundSummary, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}

	identity := deriveIdentity(meta)
	payload, err := s.loadSession(ctx, identity.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	match := game.Restore(payload.Rounds, game.WithBotPicker(s.bot))
	if match.State().GameOver {
		// stale session left behind by a failed cleanup
		if err := s.deleteSession(ctx, identity.SessionID); err != nil {
			s.logger.Warn("failed to delete stale rps session", zap.Error(err))
		}
		return nil, ErrSessionNotFound
	}

	rec, err := match.SubmitMove(rawMove)
	if err != nil {
		return nil, err
	}

	payload.Rounds = append(payload.Rounds, rec)
	payload.UpdatedAt = time.Now()

	state := s.stateFromPayload(payload)
	s.applyPlayerName(state, payload, meta)
	summary := &RoundSummary{
		State:    state,
		Round:    rec,
		Finished: state.Record.GameOver,
	}

	if !summary.Finished {
		if err := s.saveSession(ctx, identity.SessionID, payload); err != nil {
			return nil, err
		}
		return summary, nil
	}

	gameID, profile, delta, persistErr := s.persistFinishedGame(ctx, identity, payload, state.Record, state.Record.Winner())
	if persistErr != nil {
		return nil, persistErr
	}
	summary.GameID = gameID
	summary.Profile = profile
	summary.RatingDelta = delta
	state.Profile = profile
	state.RatingDelta = delta

	if err := s.deleteSession(ctx, identity.SessionID); err != nil {
		s.logger.Warn("failed to delete finished rps session", zap.Error(err))
	}
	return summary, nil
}

// Status returns the current session state without advancing it.
func (s *Service) Status(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}

	identity := deriveIdentity(meta)
	payload, err := s.loadSession(ctx, identity.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	state := s.stateFromPayload(payload)
	s.applyPlayerName(state, payload, meta)
	if profile, profErr := s.fetchProfile(ctx, identity, true); profErr == nil {
		state.Profile = profile
	}
	return state, nil
}

// Quit abandons the active match. The game is persisted as a quit, which
// counts as a loss for the player's record.
func (s *Service) Quit(ctx context.Context, meta SessionMeta) (*SessionState, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}

	identity := deriveIdentity(meta)
	payload, err := s.loadSession(ctx, identity.SessionID)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrSessionNotFound
	}

	payload.UpdatedAt = time.Now()
	state := s.stateFromPayload(payload)
	s.applyPlayerName(state, payload, meta)

	gameID, profile, delta, persistErr := s.persistFinishedGame(ctx, identity, payload, state.Record, "quit")
	if persistErr != nil {
		return nil, persistErr
	}
	state.Profile = profile
	state.RatingDelta = delta

	if err := s.deleteSession(ctx, identity.SessionID); err != nil {
		s.logger.Warn("failed to delete rps session after quit", zap.Error(err))
	}
	if gameID == 0 {
		s.logger.Warn("quit rps game did not persist with id")
	}
	return state, nil
}

func (s *Service) History(ctx context.Context, meta SessionMeta, limit int) ([]*domain.RPSGame, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	identity := deriveIdentity(meta)
	return s.repo.GetRecentGames(ctx, identity.PlayerHash, limit)
}

func (s *Service) Game(ctx context.Context, meta SessionMeta, id int64) (*domain.RPSGame, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}
	identity := deriveIdentity(meta)
	g, err := s.repo.GetGame(ctx, id, identity.PlayerHash)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (s *Service) Profile(ctx context.Context, meta SessionMeta) (*domain.RPSProfile, error) {
	if err := s.ensureRoomAllowed(meta); err != nil {
		return nil, err
	}
	identity := deriveIdentity(meta)
	profile, err := s.fetchProfile(ctx, identity, true)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *Service) ensureRoomAllowed(meta SessionMeta) error {
	if len(s.allowedRooms) == 0 {
		return nil
	}

	room := strings.ToLower(strings.TrimSpace(meta.Room))
	if room == "" {
		room = "unknown-room"
	}
	if _, ok := s.allowedRooms[room]; ok {
		return nil
	}

	s.logger.Info("rps room access denied",
		zap.String("room", room),
		zap.String("sender", strings.TrimSpace(meta.Sender)),
	)
	return ErrRoomNotAllowed
}

func (s *Service) sessionKey(sessionID string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(sessionID)))
	return "rps:sessions:" + hex.EncodeToString(hash[:])
}

func (s *Service) profileCacheKey(identity sessionIdentity) string {
	return "rps:profile:" + identity.PlayerHash + ":" + identity.RoomHash
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*sessionPayload, error) {
	payload := &sessionPayload{}
	if err := s.cache.Get(ctx, s.sessionKey(sessionID), payload); err != nil {
		return nil, err
	}
	if payload.SessionUUID == "" {
		return nil, nil
	}
	return payload, nil
}

func (s *Service) saveSession(ctx context.Context, sessionID string, payload *sessionPayload) error {
	if payload == nil {
		return fmt.Errorf("cannot save nil rps session payload")
	}
	payload.UpdatedAt = time.Now()
	return s.cache.Set(ctx, s.sessionKey(sessionID), payload, s.cfg.SessionTTL)
}

func (s *Service) deleteSession(ctx context.Context, sessionID string) error {
	return s.cache.Del(ctx, s.sessionKey(sessionID))
}

func (s *Service) stateFromPayload(payload *sessionPayload) *SessionState {
	match := game.Restore(payload.Rounds)
	return &SessionState{
		SessionUUID: payload.SessionUUID,
		PlayerHash:  payload.PlayerHash,
		RoomHash:    payload.RoomHash,
		PlayerName:  payload.PlayerName,
		Record:      match.State(),
		StartedAt:   payload.StartedAt,
		UpdatedAt:   payload.UpdatedAt,
	}
}

func normalizePlayerLabel(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}
	cleaned = strings.NewReplacer("\r", " ", "\n", " ").Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) > playerLabelRuneLimit {
		truncated := strings.TrimSpace(string(runes[:playerLabelRuneLimit]))
		if truncated == "" {
			return ""
		}
		return truncated + "..."
	}
	return cleaned
}

func (s *Service) applyPlayerName(state *SessionState, payload *sessionPayload, meta SessionMeta) {
	if state == nil {
		return
	}
	label := ""
	if payload != nil {
		label = normalizePlayerLabel(payload.PlayerName)
	}
	if label == "" {
		label = normalizePlayerLabel(meta.Sender)
	}
	if label == "" {
		label = defaultPlayerLabel
	}
	state.PlayerName = label
	if payload != nil {
		payload.PlayerName = label
	}
}

func (s *Service) persistFinishedGame(ctx context.Context, identity sessionIdentity, payload *sessionPayload, rec game.GameRecord, result string) (int64, *domain.RPSProfile, int, error) {
	now := time.Now()
	resultToken := resultToken(result)

	gameRecord := &domain.RPSGame{
		SessionUUID: payload.SessionUUID,
		PlayerHash:  identity.PlayerHash,
		RoomHash:    identity.RoomHash,
		Result:      resultToken,
		UserScore:   rec.UserScore,
		BotScore:    rec.BotScore,
		Draws:       rec.Draws,
		Rounds:      roundsToDomain(rec.History),
		StartedAt:   payload.StartedAt,
		EndedAt:     now,
		Duration:    now.Sub(payload.StartedAt),
	}

	gameID, err := s.repo.InsertGame(ctx, gameRecord)
	if err != nil {
		if errors.Is(err, ErrDuplicateGame) {
			existing, fetchErr := s.repo.GetGameBySession(ctx, payload.SessionUUID, identity.PlayerHash)
			if fetchErr != nil || existing == nil {
				return 0, nil, 0, err
			}
			profile, profErr := s.fetchProfile(ctx, identity, true)
			if profErr != nil && !errors.Is(profErr, ErrProfileNotFound) {
				return existing.ID, nil, 0, profErr
			}
			return existing.ID, profile, 0, nil
		}
		return 0, nil, 0, err
	}
	gameRecord.ID = gameID

	profile, err := s.fetchProfile(ctx, identity, false)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return gameID, nil, 0, err
	}
	profile, delta := applyGameResult(profile, identity, resultToken, now)

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return gameID, nil, 0, err
	}
	s.cacheProfile(ctx, identity, profile)

	return gameID, profile, delta, nil
}

func (s *Service) fetchProfile(ctx context.Context, identity sessionIdentity, allowCache bool) (*domain.RPSProfile, error) {
	if !allowCache {
		profile, err := s.repo.GetProfile(ctx, identity.PlayerHash, identity.RoomHash)
		if profile == nil && err == nil {
			return nil, ErrProfileNotFound
		}
		if err != nil {
			return nil, err
		}
		s.cacheProfile(ctx, identity, profile)
		return profile, nil
	}

	key := s.profileCacheKey(identity)
	profile := &domain.RPSProfile{}
	if err := s.cache.Get(ctx, key, profile); err != nil {
		return nil, err
	}
	if profile.PlayerHash != "" {
		return profile, nil
	}

	stored, err := s.repo.GetProfile(ctx, identity.PlayerHash, identity.RoomHash)
	if stored == nil && err == nil {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, identity, stored)
	return stored, nil
}

func (s *Service) cacheProfile(ctx context.Context, identity sessionIdentity, profile *domain.RPSProfile) {
	if profile == nil {
		return
	}
	if err := s.cache.Set(ctx, s.profileCacheKey(identity), profile, profileCacheTTL); err != nil {
		s.logger.Warn("failed to cache rps profile", zap.Error(err))
	}
}

func deriveIdentity(meta SessionMeta) sessionIdentity {
	sessionID := strings.ToLower(strings.TrimSpace(meta.SessionID))
	room := strings.ToLower(strings.TrimSpace(meta.Room))
	sender := strings.ToLower(strings.TrimSpace(meta.Sender))

	return sessionIdentity{
		SessionID:  sessionID,
		RoomHash:   hashString(room),
		PlayerHash: hashString(room + ":" + sender),
	}
}

func hashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func roundsToDomain(history []game.RoundRecord) []domain.RPSRound {
	out := make([]domain.RPSRound, 0, len(history))
	for _, r := range history {
		out = append(out, domain.RPSRound{
			Round:    r.Round,
			RawInput: r.RawInput,
			UserMove: string(r.UserMove),
			BotMove:  string(r.BotMove),
			Outcome:  string(r.Outcome),
		})
	}
	return out
}

func resultToken(winner string) string {
	switch winner {
	case "user":
		return "win"
	case "bot":
		return "loss"
	case "quit":
		return "quit"
	default:
		return "draw"
	}
}

// applyGameResult folds one finished match into the player profile with an
// Elo-style adjustment against a fixed bot rating. Quits count as losses.
func applyGameResult(profile *domain.RPSProfile, identity sessionIdentity, result string, endedAt time.Time) (*domain.RPSProfile, int) {
	if profile == nil {
		profile = &domain.RPSProfile{
			PlayerHash: identity.PlayerHash,
			RoomHash:   identity.RoomHash,
			Rating:     defaultPlayerRating,
			CreatedAt:  endedAt,
		}
	}

	prevRating := profile.Rating

	profile.GamesPlayed++
	profile.LastPlayedAt = endedAt
	profile.UpdatedAt = endedAt

	var streakType string
	var score float64
	switch result {
	case "win":
		profile.Wins++
		streakType = "win"
		score = 1.0
	case "loss", "quit":
		profile.Losses++
		streakType = "loss"
		score = 0.0
	default:
		profile.Draws++
		streakType = "draw"
		score = 0.5
	}

	if profile.StreakType == streakType {
		profile.Streak++
	} else {
		profile.Streak = 1
		profile.StreakType = streakType
	}

	expected := 1 / (1 + math.Pow(10, float64(botApproxRating-profile.Rating)/400))
	profile.Rating = int(math.Round(float64(profile.Rating) + kFactor*(score-expected)))

	return profile, profile.Rating - prevRating
}
