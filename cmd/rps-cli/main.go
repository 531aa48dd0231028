package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-rps-bot-go/internal/adapter/rpspresenter"
	"github.com/kapu/kakao-rps-bot-go/internal/game"
	"github.com/kapu/kakao-rps-bot-go/internal/msgcat"
	"github.com/kapu/kakao-rps-bot-go/internal/service/cache"
	svcrps "github.com/kapu/kakao-rps-bot-go/internal/service/rps"
)

// Local terminal loop over the same service the bot uses, with in-memory
// storage. Useful for trying the referee without a relay, Redis, or Postgres.
func main() {
	svc, err := svcrps.NewService(cache.NewMemory(), svcrps.NewMemoryRepository(), game.NewRandomPicker(), svcrps.Config{
		SessionTTL:   time.Hour,
		HistoryLimit: 10,
	}, zap.NewNop())
	if err != nil {
		log.Fatalf("service init: %v", err)
	}

	catalog, err := msgcat.New("")
	if err != nil {
		log.Fatalf("message catalog: %v", err)
	}
	formatter := rpspresenter.NewFormatter(cliPrefix{}, catalog)

	name := "you"
	if len(os.Args) > 1 && strings.TrimSpace(os.Args[1]) != "" {
		name = strings.TrimSpace(os.Args[1])
	}
	meta := svcrps.SessionMeta{SessionID: "cli:" + name, Room: "cli", Sender: name}
	ctx := context.Background()

	fmt.Println(formatter.Help())
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if line == "exit" {
			return
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println(formatter.Help())
		case "start":
			state, err := svc.StartSession(ctx, meta)
			resumed := errors.Is(err, svcrps.ErrSessionInProgress)
			if err != nil && !resumed {
				fmt.Println("start failed:", err)
				break
			}
			fmt.Println(formatter.Start(rpspresenter.ToDTOState(state), resumed))
		case "status":
			state, err := svc.Status(ctx, meta)
			if err != nil {
				fmt.Println(formatter.NoSession())
				break
			}
			fmt.Println(formatter.Status(rpspresenter.ToDTOState(state)))
		case "quit":
			state, err := svc.Quit(ctx, meta)
			if err != nil {
				fmt.Println(formatter.NoSession())
				break
			}
			fmt.Println(formatter.Quit(rpspresenter.ToDTOState(state)))
		case "history":
			limit := 0
			if len(args) >= 1 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					limit = n
				}
			}
			games, err := svc.History(ctx, meta, limit)
			if err != nil {
				fmt.Println("history failed:", err)
				break
			}
			fmt.Println(formatter.History(rpspresenter.ToDTOGames(games)))
		case "game":
			if len(args) < 1 {
				fmt.Println("usage: game <id>")
				break
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Println("invalid id")
				break
			}
			g, err := svc.Game(ctx, meta, id)
			if err != nil {
				fmt.Println("no game with that id")
				break
			}
			fmt.Println(formatter.Game(rpspresenter.ToDTOGame(g)))
		case "profile":
			profile, err := svc.Profile(ctx, meta)
			if err != nil {
				fmt.Println(formatter.Profile(nil))
				break
			}
			fmt.Println(formatter.Profile(rpspresenter.ToDTOProfile(profile)))
		default:
			summary, err := svc.Play(ctx, meta, line)
			if err != nil {
				if errors.Is(err, svcrps.ErrSessionNotFound) {
					fmt.Println(formatter.NoSession())
					break
				}
				fmt.Println("move failed:", err)
				break
			}
			fmt.Println(formatter.Round(rpspresenter.ToDTORoundSummary(summary)))
		}
		fmt.Print("> ")
	}
}

type cliPrefix struct{}

func (cliPrefix) Prefix() string { return "" }
