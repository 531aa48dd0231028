package rpsbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/kakao-rps-bot-go/internal/config"
	"github.com/kapu/kakao-rps-bot-go/internal/game"
	"github.com/kapu/kakao-rps-bot-go/internal/service/cache"
	svcrps "github.com/kapu/kakao-rps-bot-go/internal/service/rps"
)

type Deps struct {
	Service *svcrps.Service
	Cache   *cache.CacheService
	Repo    svcrps.Repository
	DB      *sql.DB
}

// New wires the RPS service from config: Redis-backed cache and Postgres
// repository when configured, in-memory fallbacks for local development.
func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Cache (Redis optional; sessions survive restarts only with Redis)
	var cacheSvc *cache.CacheService
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		cacheSvc = cache.NewRedis(rdb)
	} else {
		logger.Warn("REDIS_URL not set, using in-memory session cache")
		cacheSvc = cache.NewMemory()
	}

	// Repository (Postgres optional; history/profiles are process-local without it)
	var (
		repo svcrps.Repository
		db   *sql.DB
	)
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		// basic pool settings
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		repo = svcrps.NewRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory game repository")
		repo = svcrps.NewMemoryRepository()
	}

	svcCfg := svcrps.Config{
		SessionTTL:   time.Duration(cfg.RPSSessionTTLSec) * time.Second,
		HistoryLimit: cfg.RPSHistoryLimit,
		AllowedRooms: append([]string(nil), cfg.AllowedRooms...),
	}

	service, err := svcrps.NewService(cacheSvc, repo, game.NewRandomPicker(), svcCfg, logger)
	if err != nil {
		return nil, err
	}

	return &Deps{Service: service, Cache: cacheSvc, Repo: repo, DB: db}, nil
}

// Close releases builder-owned resources.
func (d *Deps) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
