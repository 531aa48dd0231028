package game

import "math/rand/v2"

// BotPicker draws the bot's move for one round. Implementations must never
// return Bomb once bombUsed is true.
type BotPicker interface {
	Pick(bombUsed bool) Move
}

// randPicker draws uniformly from the currently legal moves with a fresh
// draw per round.
type randPicker struct{}

func (randPicker) Pick(bombUsed bool) Move {
	avail := Moves(bombUsed)
	return avail[rand.IntN(len(avail))]
}

// NewRandomPicker returns the default uniform-random bot.
func NewRandomPicker() BotPicker { return randPicker{} }

// ScriptedPicker replays a fixed move sequence; used by tests and replay.
type ScriptedPicker struct {
	Script []Move
	next   int
}

func (p *ScriptedPicker) Pick(bombUsed bool) Move {
	if p.next >= len(p.Script) {
		avail := Moves(bombUsed)
		return avail[0]
	}
	mv := p.Script[p.next]
	p.next++
	if mv == Bomb && bombUsed {
		return Rock
	}
	return mv
}
