package rpspresenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/kapu/kakao-rps-bot-go/internal/game"
	"github.com/kapu/kakao-rps-bot-go/internal/msgcat"
	"github.com/kapu/kakao-rps-bot-go/internal/util"
	"github.com/kapu/kakao-rps-bot-go/pkg/rpsdto"
)

const (
	historyInstruction = "📜 Recent games"
	helpInstruction    = "✂️ RPS-Plus commands"
	profileInstruction = "👤 RPS-Plus profile"
)

// PrefixProvider exposes the command prefix Kakao messages should use.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders RPS DTOs into Kakao-friendly text blocks. Templates come
// from the message catalog with plain fallbacks when a key is missing.
type Formatter struct {
	prefixProvider PrefixProvider
	catalog        *msgcat.Catalog
}

func NewFormatter(provider PrefixProvider, catalog *msgcat.Catalog) *Formatter {
	return &Formatter{prefixProvider: provider, catalog: catalog}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil || f.catalog == nil {
		return fallback
	}
	out, err := f.catalog.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}

func (f *Formatter) Start(state *rpsdto.SessionState, resumed bool) string {
	if state == nil {
		return fmt.Sprintf("Could not start a match. Try `%srps start` again.", f.Prefix())
	}
	if resumed {
		return f.render("rps.resumed", map[string]any{
			"Player":    state.PlayerName,
			"Round":     state.Round,
			"MaxRounds": game.MaxRounds,
			"UserScore": state.UserScore,
			"BotScore":  state.BotScore,
			"Draws":     state.Draws,
		}, fmt.Sprintf("Match resumed — round %d of %d.", state.Round, game.MaxRounds))
	}
	return f.render("rps.start", map[string]any{
		"Player":    state.PlayerName,
		"Round":     state.Round,
		"MaxRounds": game.MaxRounds,
	}, fmt.Sprintf("New match started — round %d of %d. Moves: rock, paper, scissors, bomb.", state.Round, game.MaxRounds))
}

// Round renders the immediate result of one submitted move, including the
// end-of-game summary when this was the last round.
func (f *Formatter) Round(summary *rpsdto.RoundSummary) string {
	if summary == nil || summary.State == nil {
		return ""
	}
	state := summary.State
	rec := summary.Round

	var sb strings.Builder
	if rec.Outcome == "forfeit" {
		sb.WriteString(f.render("rps.forfeit", map[string]any{
			"Round":     rec.Round,
			"RawInput":  rec.RawInput,
			"UserScore": state.UserScore,
			"BotScore":  state.BotScore,
			"Draws":     state.Draws,
		}, fmt.Sprintf("Round %d forfeited: %q is not a valid move.", rec.Round, rec.RawInput)))
	} else {
		sb.WriteString(f.render("rps.round", map[string]any{
			"Emoji":       outcomeEmoji(rec.Outcome),
			"Round":       rec.Round,
			"UserMove":    rec.UserMove,
			"BotMove":     rec.BotMove,
			"OutcomeText": outcomeText(rec.Outcome),
			"UserScore":   state.UserScore,
			"BotScore":    state.BotScore,
			"Draws":       state.Draws,
		}, fmt.Sprintf("Round %d: %s vs %s — %s.", rec.Round, rec.UserMove, rec.BotMove, outcomeText(rec.Outcome))))
	}

	if summary.Finished {
		sb.WriteString("\n\n")
		sb.WriteString(f.summaryBlock(state, summary.Profile, summary.RatingDelta, summary.GameID))
	}
	return sb.String()
}

func (f *Formatter) summaryBlock(state *rpsdto.SessionState, profile *rpsdto.RPSProfile, delta int, gameID int64) string {
	text := f.render("rps.summary", map[string]any{
		"Emoji":      resultEmoji(state.Winner),
		"ResultText": resultText(state.Winner),
		"UserScore":  state.UserScore,
		"BotScore":   state.BotScore,
		"Draws":      state.Draws,
		"RatingLine": ratingLine(profile, delta),
	}, fmt.Sprintf("Game over — %s. Final score %d:%d.", resultText(state.Winner), state.UserScore, state.BotScore))

	if gameID > 0 {
		text += fmt.Sprintf("\nGame ID: #%d", gameID)
	}
	return text
}

func (f *Formatter) Status(state *rpsdto.SessionState) string {
	if state == nil {
		return f.Help()
	}
	return f.render("rps.status", map[string]any{
		"Player":    state.PlayerName,
		"Round":     state.Round,
		"MaxRounds": game.MaxRounds,
		"UserScore": state.UserScore,
		"BotScore":  state.BotScore,
		"Draws":     state.Draws,
		"UserBomb":  bombWord(state.UserBombUsed),
		"BotBomb":   bombWord(state.BotBombUsed),
	}, fmt.Sprintf("Round %d of %d. Score %d:%d (draws %d).", state.Round, game.MaxRounds, state.UserScore, state.BotScore, state.Draws))
}

func (f *Formatter) Quit(state *rpsdto.SessionState) string {
	if state == nil {
		return "Match abandoned."
	}
	text := f.render("rps.quit", map[string]any{
		"Round":     state.Round,
		"UserScore": state.UserScore,
		"BotScore":  state.BotScore,
		"Draws":     state.Draws,
	}, "Match abandoned — recorded as a loss.")
	if line := ratingLine(state.Profile, state.RatingDelta); line != "" {
		text += line
	}
	return text
}

func (f *Formatter) History(games []*rpsdto.RPSGame) string {
	if len(games) == 0 {
		return f.render("rps.history_empty", nil, "No finished games yet.")
	}
	header := f.render("rps.history_header", nil, historyInstruction)

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for _, g := range games {
		sb.WriteString(fmt.Sprintf("• #%d %s %s — %d:%d (draws %d, rounds %d)\n",
			g.ID, resultBadge(g.Result), formatShortTime(g.EndedAt), g.UserScore, g.BotScore, g.Draws, len(g.Rounds)))
		if d := formatGameDuration(g.Duration); d != "" {
			sb.WriteString("  duration: " + d + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\nDetails: `%srps game <ID>`.", f.Prefix()))

	return util.ApplySeeMoreWithHeader(sb.String(), header, historyInstruction, "")
}

func (f *Formatter) Game(g *rpsdto.RPSGame) string {
	if g == nil {
		return "Could not load that game."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎲 Game #%d\n", g.ID))
	sb.WriteString(fmt.Sprintf("• Result: %s\n", resultBadge(g.Result)))
	sb.WriteString(fmt.Sprintf("• Score: %d:%d (draws %d)\n", g.UserScore, g.BotScore, g.Draws))
	if !g.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("• Started: %s\n", formatShortTime(g.StartedAt)))
	}
	if !g.EndedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("• Ended: %s\n", formatShortTime(g.EndedAt)))
	}
	if d := formatGameDuration(g.Duration); d != "" {
		sb.WriteString("• Duration: " + d + "\n")
	}
	if len(g.Rounds) > 0 {
		sb.WriteString("\nRounds:\n")
		for _, r := range g.Rounds {
			if r.Outcome == "forfeit" {
				sb.WriteString(fmt.Sprintf("%d. %q — forfeit\n", r.Round, r.RawInput))
				continue
			}
			sb.WriteString(fmt.Sprintf("%d. %s vs %s — %s\n", r.Round, r.UserMove, r.BotMove, outcomeText(r.Outcome)))
		}
	}
	return sb.String()
}

func (f *Formatter) Profile(profile *rpsdto.RPSProfile) string {
	if profile == nil {
		return f.render("rps.profile_empty", nil, "No profile yet — finish a game first.")
	}
	content := f.render("rps.profile", map[string]any{
		"Rating":      profile.Rating,
		"GamesPlayed": profile.GamesPlayed,
		"Wins":        profile.Wins,
		"Losses":      profile.Losses,
		"Draws":       profile.Draws,
		"Streak":      profile.Streak,
		"StreakType":  profile.StreakType,
	}, fmt.Sprintf("Rating %d, %d games (%dW/%dL/%dD).", profile.Rating, profile.GamesPlayed, profile.Wins, profile.Losses, profile.Draws))

	if !profile.LastPlayedAt.IsZero() {
		content += "\nLast played: " + formatShortTime(profile.LastPlayedAt)
	}
	content += fmt.Sprintf("\n\nNew game: `%srps start`, history: `%srps history`.", f.Prefix(), f.Prefix())

	return util.ApplySeeMoreWithHeader(profileInstruction+"\n"+content, profileInstruction, profileInstruction, "")
}

func (f *Formatter) Help() string {
	content := f.render("rps.help", map[string]any{"Prefix": f.Prefix()},
		fmt.Sprintf("Commands: %srps start | <move> | status | quit | history [n] | game <id> | profile", f.Prefix()))
	return util.ApplySeeMoreWithHeader(content, helpInstruction, helpInstruction, "")
}

func (f *Formatter) NoSession() string {
	return fmt.Sprintf("No match in progress. Start one with `%srps start`.", f.Prefix())
}

func outcomeEmoji(outcome string) string {
	switch outcome {
	case "user-win":
		return "✅"
	case "bot-win":
		return "❌"
	case "draw":
		return "🤝"
	default:
		return "⚠️"
	}
}

func outcomeText(outcome string) string {
	switch outcome {
	case "user-win":
		return "you win"
	case "bot-win":
		return "bot wins"
	case "draw":
		return "draw"
	case "forfeit":
		return "forfeit"
	default:
		return outcome
	}
}

func resultEmoji(winner string) string {
	switch winner {
	case "user":
		return "🏆"
	case "bot":
		return "❌"
	default:
		return "🤝"
	}
}

func resultText(winner string) string {
	switch winner {
	case "user":
		return "you won the match!"
	case "bot":
		return "the bot took this one."
	default:
		return "the match ended in a draw."
	}
}

func resultBadge(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "win":
		return "✅ W"
	case "loss":
		return "❌ L"
	case "quit":
		return "🛑 Q"
	case "draw":
		return "🤝 D"
	default:
		return "▫️ ?"
	}
}

func bombWord(used bool) string {
	if used {
		return "spent"
	}
	return "available"
}

func ratingLine(profile *rpsdto.RPSProfile, delta int) string {
	if profile == nil {
		return ""
	}
	line := fmt.Sprintf("\nRating: %d", profile.Rating)
	if delta > 0 {
		line += fmt.Sprintf(" (▲%d)", delta)
	} else if delta < 0 {
		line += fmt.Sprintf(" (▼%d)", -delta)
	} else if profile.GamesPlayed > 0 {
		line += " (no change)"
	}
	return line
}

func formatShortTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatGameDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
