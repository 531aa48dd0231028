package game

// Outcome classifies one completed round from the user's perspective.
type Outcome string

const (
	OutcomeUserWin Outcome = "user-win"
	OutcomeBotWin  Outcome = "bot-win"
	OutcomeDraw    Outcome = "draw"
	// OutcomeForfeit marks a round consumed by invalid input. It never comes
	// out of Resolve; the match controller records it before resolution.
	OutcomeForfeit Outcome = "forfeit"
)

// beats holds the standard relations: key beats value.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Resolve maps a pair of validated canonical moves to a round outcome.
// Bomb beats everything; bomb against bomb is a draw. Pure and total over
// canonical move pairs, symmetric under role swap.
func Resolve(user, bot Move) Outcome {
	if user == Bomb && bot == Bomb {
		return OutcomeDraw
	}
	if user == Bomb {
		return OutcomeUserWin
	}
	if bot == Bomb {
		return OutcomeBotWin
	}
	if user == bot {
		return OutcomeDraw
	}
	if beats[user] == bot {
		return OutcomeUserWin
	}
	return OutcomeBotWin
}
