package game

// MaxRounds is fixed for RPS-Plus: a match is exactly three rounds.
const MaxRounds = 3

// RoundRecord is the immutable log entry for a single consumed round.
// Forfeited rounds keep the raw input and leave UserMove empty.
type RoundRecord struct {
	Round    int     `json:"round"`
	RawInput string  `json:"raw_input"`
	UserMove Move    `json:"user_move,omitempty"`
	BotMove  Move    `json:"bot_move,omitempty"`
	Outcome  Outcome `json:"outcome"`
}

// GameRecord is the single source of truth for one match. It is owned by a
// Match and only ever mutated through commit.
type GameRecord struct {
	Round        int           `json:"round"`
	UserScore    int           `json:"user_score"`
	BotScore     int           `json:"bot_score"`
	Draws        int           `json:"draws"`
	UserBombUsed bool          `json:"user_bomb_used"`
	BotBombUsed  bool          `json:"bot_bomb_used"`
	History      []RoundRecord `json:"history"`
	GameOver     bool          `json:"game_over"`
}

func newGameRecord() GameRecord {
	return GameRecord{Round: 1, History: make([]RoundRecord, 0, MaxRounds)}
}

// commit applies one completed round in a single transition: append history,
// bump exactly one score bucket, latch bomb flags, advance the round counter
// and flip GameOver past round MaxRounds. A forfeit consumes the round and
// scores for the bot.
func (g *GameRecord) commit(rec RoundRecord) {
	g.History = append(g.History, rec)

	switch rec.Outcome {
	case OutcomeUserWin:
		g.UserScore++
	case OutcomeDraw:
		g.Draws++
	default: // bot-win and forfeit both score for the bot
		g.BotScore++
	}

	if rec.UserMove == Bomb {
		g.UserBombUsed = true
	}
	if rec.BotMove == Bomb {
		g.BotBombUsed = true
	}

	g.Round++
	if g.Round > MaxRounds {
		g.GameOver = true
	}
}

// snapshot returns a copy safe to hand out; history is cloned so callers
// cannot reach back into the owned record.
func (g GameRecord) snapshot() GameRecord {
	out := g
	out.History = append([]RoundRecord(nil), g.History...)
	return out
}

// Winner reports the match result once GameOver: "user", "bot" or "draw".
func (g GameRecord) Winner() string {
	switch {
	case g.UserScore > g.BotScore:
		return "user"
	case g.BotScore > g.UserScore:
		return "bot"
	default:
		return "draw"
	}
}
