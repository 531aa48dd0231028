package rpsdto

import "time"

type RoundRecord struct {
	Round    int
	RawInput string
	UserMove string
	BotMove  string
	Outcome  string
}

type SessionState struct {
	SessionUUID  string
	PlayerName   string
	Round        int
	UserScore    int
	BotScore     int
	Draws        int
	UserBombUsed bool
	BotBombUsed  bool
	History      []RoundRecord
	GameOver     bool
	Winner       string
	Profile      *RPSProfile
	RatingDelta  int
	StartedAt    time.Time
	UpdatedAt    time.Time
}
