package game

import "errors"

// ErrMatchOver is returned when a move is submitted after the match reached
// its terminal state. That is caller misuse: the surrounding adapter must
// stop feeding input once GameOver is set.
var ErrMatchOver = errors.New("rps match already finished")

// Match sequences validation, bot draw, resolution and commit for one game.
// One Match instance owns one GameRecord for its whole lifetime; turns are
// strictly sequential, so no locking is needed.
type Match struct {
	rec GameRecord
	bot BotPicker
}

// Option configures a Match.
type Option func(*Match)

// WithBotPicker overrides the default uniform-random bot.
func WithBotPicker(p BotPicker) Option {
	return func(m *Match) {
		if p != nil {
			m.bot = p
		}
	}
}

// NewMatch starts a fresh three-round match.
func NewMatch(opts ...Option) *Match {
	m := &Match{rec: newGameRecord(), bot: NewRandomPicker()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore rebuilds a match from previously committed rounds, feeding them
// back through the same single mutation point so every invariant is
// re-established. Rounds past the terminal state are ignored.
func Restore(rounds []RoundRecord, opts ...Option) *Match {
	m := NewMatch(opts...)
	for _, rec := range rounds {
		if m.rec.GameOver {
			break
		}
		rec.Round = m.rec.Round
		m.rec.commit(rec)
	}
	return m
}

// SubmitMove processes one turn from raw user input. Invalid input is not an
// error: the round is forfeited, still consumed, and the returned record says
// so. The only error is ErrMatchOver.
func (m *Match) SubmitMove(raw string) (RoundRecord, error) {
	if m.rec.GameOver {
		return RoundRecord{}, ErrMatchOver
	}

	rec := RoundRecord{Round: m.rec.Round, RawInput: raw}

	userMove, ok := ParseMove(raw, m.rec.UserBombUsed)
	if !ok {
		rec.Outcome = OutcomeForfeit
		m.rec.commit(rec)
		return rec, nil
	}

	rec.UserMove = userMove
	rec.BotMove = m.bot.Pick(m.rec.BotBombUsed)
	rec.Outcome = Resolve(userMove, rec.BotMove)
	m.rec.commit(rec)
	return rec, nil
}

// State returns a snapshot of the current game record. Successive calls
// without an intervening SubmitMove return identical values.
func (m *Match) State() GameRecord {
	return m.rec.snapshot()
}
