package domain

import "time"

type RPSRound struct {
	Round    int    `json:"round"`
	RawInput string `json:"raw_input"`
	UserMove string `json:"user_move,omitempty"`
	BotMove  string `json:"bot_move,omitempty"`
	Outcome  string `json:"outcome"`
}

type RPSGame struct {
	ID          int64
	SessionUUID string
	PlayerHash  string
	RoomHash    string
	Result      string // win | loss | draw | quit
	UserScore   int
	BotScore    int
	Draws       int
	Rounds      []RPSRound
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    time.Duration
}

type RPSProfile struct {
	PlayerHash   string
	RoomHash     string
	Rating       int
	GamesPlayed  int
	Wins         int
	Losses       int
	Draws        int
	Streak       int
	StreakType   string
	LastPlayedAt time.Time
	UpdatedAt    time.Time
	CreatedAt    time.Time
}
