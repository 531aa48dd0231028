package rpsdto

import "time"

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

type RPSGame struct {
	ID          int64
	SessionUUID string
	Result      string
	UserScore   int
	BotScore    int
	Draws       int
	Rounds      []RoundRecord
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    time.Duration
}
