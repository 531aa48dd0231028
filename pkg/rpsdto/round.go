package rpsdto

// RoundSummary captures what just happened after submitting a single move.
type RoundSummary struct {
	State       *SessionState
	Round       RoundRecord
	Finished    bool
	GameID      int64
	Profile     *RPSProfile
	RatingDelta int
}
