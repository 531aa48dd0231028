package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-rps-bot-go/internal/adapter/rpspresenter"
	appcfg "github.com/kapu/kakao-rps-bot-go/internal/config"
	"github.com/kapu/kakao-rps-bot-go/internal/irisfast"
	"github.com/kapu/kakao-rps-bot-go/internal/msgcat"
	"github.com/kapu/kakao-rps-bot-go/internal/obslog"
	"github.com/kapu/kakao-rps-bot-go/internal/rpsbuilder"
	svcrps "github.com/kapu/kakao-rps-bot-go/internal/service/rps"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws state", zap.Stringer("state", state))
	})

	deps, err := rpsbuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("rps init error: %v", err)
	}
	defer func() { _ = deps.Close() }()

	catalog, err := msgcat.New(strings.TrimSpace(os.Getenv("MSG_OVERRIDE_DIR")))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	egress := irisfast.NewEgress(strings.TrimSpace(os.Getenv("EGRESS_MODE")), cfg.EgressDryRun, client, ws, logger)
	presenter := rpspresenter.NewPresenter(func(room, message string) error {
		return egress.SendText(context.Background(), room, message)
	})
	formatter := rpspresenter.NewFormatter(prefixProvider{prefix: cfg.BotPrefix}, catalog)

	bot := &botHandler{
		cfg:       cfg,
		logger:    logger,
		rps:       deps.Service,
		presenter: presenter,
		formatter: formatter,
	}

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		if !strings.HasPrefix(strings.TrimSpace(msg.Msg), cfg.BotPrefix) {
			return
		}
		// Avoid blocking the WS loop
		go bot.handle(msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()
	logger.Info("rps bot running", zap.String("prefix", cfg.BotPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }

type botHandler struct {
	cfg       *appcfg.AppConfig
	logger    *zap.Logger
	rps       *svcrps.Service
	presenter *rpspresenter.Presenter
	formatter *rpspresenter.Formatter
}

func (b *botHandler) handle(msg *irisfast.Message) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Msg), b.cfg.BotPrefix))
	if raw == "" {
		_ = b.presenter.Text(msg.Room, b.formatter.Help())
		return
	}
	parts := strings.Fields(raw)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		_ = b.presenter.Text(msg.Room, b.formatter.Help())
	case "rps":
		b.handleRPS(msg, args)
	default:
		_ = b.presenter.Text(msg.Room, "Unknown command. Try '"+b.cfg.BotPrefix+"help'.")
	}
}

func (b *botHandler) handleRPS(msg *irisfast.Message, args []string) {
	meta := svcrps.SessionMeta{
		SessionID: sessionIDFor(msg),
		Room:      msg.Room,
		Sender:    senderName(msg),
	}
	if len(args) == 0 {
		_ = b.presenter.Text(msg.Room, b.formatter.Help())
		return
	}
	sub := strings.ToLower(strings.TrimSpace(args[0]))
	ctx := context.Background()

	switch sub {
	case "start":
		state, err := b.rps.StartSession(ctx, meta)
		resumed := false
		if errors.Is(err, svcrps.ErrSessionInProgress) {
			resumed = true
			err = nil
		}
		if err != nil {
			b.reportError(msg.Room, "start failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Start(rpspresenter.ToDTOState(state), resumed))
	case "status":
		state, err := b.rps.Status(ctx, meta)
		if err != nil {
			if errors.Is(err, svcrps.ErrSessionNotFound) {
				_ = b.presenter.Text(msg.Room, b.formatter.NoSession())
				return
			}
			b.reportError(msg.Room, "status failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Status(rpspresenter.ToDTOState(state)))
	case "quit":
		state, err := b.rps.Quit(ctx, meta)
		if err != nil {
			if errors.Is(err, svcrps.ErrSessionNotFound) {
				_ = b.presenter.Text(msg.Room, b.formatter.NoSession())
				return
			}
			b.reportError(msg.Room, "quit failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Quit(rpspresenter.ToDTOState(state)))
	case "history":
		limit := 0
		if len(args) >= 2 {
			if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
				limit = n
			}
		}
		games, err := b.rps.History(ctx, meta, limit)
		if err != nil {
			b.reportError(msg.Room, "history failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.History(rpspresenter.ToDTOGames(games)))
	case "game":
		if len(args) < 2 {
			_ = b.presenter.Text(msg.Room, "Usage: "+b.cfg.BotPrefix+"rps game <ID>")
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			_ = b.presenter.Text(msg.Room, "Invalid game ID.")
			return
		}
		g, err := b.rps.Game(ctx, meta, id)
		if err != nil {
			if errors.Is(err, svcrps.ErrGameNotFound) {
				_ = b.presenter.Text(msg.Room, "No game with that ID.")
				return
			}
			b.reportError(msg.Room, "game lookup failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Game(rpspresenter.ToDTOGame(g)))
	case "profile":
		profile, err := b.rps.Profile(ctx, meta)
		if err != nil {
			if errors.Is(err, svcrps.ErrProfileNotFound) {
				_ = b.presenter.Text(msg.Room, b.formatter.Profile(nil))
				return
			}
			b.reportError(msg.Room, "profile failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Profile(rpspresenter.ToDTOProfile(profile)))
	default:
		// Treat as a move
		summary, err := b.rps.Play(ctx, meta, sub)
		if err != nil {
			if errors.Is(err, svcrps.ErrSessionNotFound) {
				_ = b.presenter.Text(msg.Room, b.formatter.NoSession())
				return
			}
			b.reportError(msg.Room, "move failed", err)
			return
		}
		_ = b.presenter.Text(msg.Room, b.formatter.Round(rpspresenter.ToDTORoundSummary(summary)))
	}
}

func (b *botHandler) reportError(room, what string, err error) {
	derr := rpspresenter.ToDomainError(err)
	if derr.Code == "room_not_allowed" {
		return
	}
	b.logger.Warn("rps command error",
		zap.String("what", what),
		zap.String("code", derr.Code),
		zap.Error(err),
	)
	_ = b.presenter.Text(room, derr.Message+".")
}

func sessionIDFor(msg *irisfast.Message) string {
	uid := userIDFromMessage(msg)
	if uid == "" {
		uid = senderName(msg)
	}
	return fmt.Sprintf("%s:%s", strings.TrimSpace(msg.Room), strings.TrimSpace(uid))
}

func userIDFromMessage(msg *irisfast.Message) string {
	if msg.JSON != nil && msg.JSON.UserID != "" {
		return msg.JSON.UserID
	}
	if msg.Sender != nil {
		return strings.TrimSpace(*msg.Sender)
	}
	return ""
}

func senderName(msg *irisfast.Message) string {
	if msg.Sender != nil && strings.TrimSpace(*msg.Sender) != "" {
		return strings.TrimSpace(*msg.Sender)
	}
	if msg.JSON != nil && strings.TrimSpace(msg.JSON.UserID) != "" {
		return strings.TrimSpace(msg.JSON.UserID)
	}
	return "player"
}
