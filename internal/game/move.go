package game

import "strings"

// Move is a canonical RPS-Plus move token.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
	Bomb     Move = "bomb"
)

// synonyms maps normalized user tokens to canonical moves.
var synonyms = map[string]Move{
	"rock":     Rock,
	"r":        Rock,
	"stone":    Rock,
	"paper":    Paper,
	"p":        Paper,
	"scissors": Scissors,
	"scissor":  Scissors,
	"s":        Scissors,
	"bomb":     Bomb,
	"b":        Bomb,
}

// ParseMove normalizes raw input and checks it against the legal move set.
// A bomb is only legal while the submitting side's bomb flag is unset; a
// disallowed bomb is reported the same way as an unknown token. Pure function
// of its inputs.
func ParseMove(raw string, bombUsed bool) (Move, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	mv, ok := synonyms[token]
	if !ok {
		return "", false
	}
	if mv == Bomb && bombUsed {
		return "", false
	}
	return mv, true
}

// Moves lists the canonical moves, bomb excluded when already spent.
func Moves(bombUsed bool) []Move {
	base := []Move{Rock, Paper, Scissors}
	if bombUsed {
		return base
	}
	return append(base, Bomb)
}
