// Package app assembles the shop from configuration. The server, the seed
// command and the console harness all start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"webshop/internal/cache"
	"webshop/internal/config"
	"webshop/internal/db"
	"webshop/internal/events"
	"webshop/internal/repository"
	"webshop/internal/service"
	"webshop/internal/session"
)

// App holds the wired dependencies of a running shop.
type App struct {
	DB       *gorm.DB
	Store    repository.Store
	Cache    *cache.Client
	Sessions *session.Tracker
	Shop     *service.Shop

	closers []func() error
}

// New connects to the database, migrates it and wires the services.
// Redis is optional unless sessions are kept there; when it is unreachable
// token revocation is disabled.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	a := &App{DB: gormDB}
	if sqlDB, err := gormDB.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	if cfg.ResetDB {
		logger.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			a.Close()
			return nil, err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		a.Close()
		return nil, err
	}
	a.Store = repository.NewStore(gormDB)

	a.Cache = connectCache(ctx, cfg, logger)
	if a.Cache != nil {
		a.closers = append(a.closers, a.Cache.Close)
	}

	var sessionStore session.Store
	switch cfg.SessionBackend {
	case "redis":
		if a.Cache == nil {
			a.Close()
			return nil, fmt.Errorf("session backend redis: redis at %s is unreachable", cfg.RedisAddr)
		}
		sessionStore = session.NewRedisStore(a.Cache, session.Window)
	case "db", "":
		sessionStore = session.NewGormStore(gormDB)
	default:
		a.Close()
		return nil, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
	a.Sessions = session.NewTracker(sessionStore, logger)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		writer := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.SalesTopic)
		a.closers = append(a.closers, writer.Close)
		publisher = events.NewKafkaPublisher(writer)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.SalesTopic).Msg("publishing sales to kafka")
	}

	a.Shop = service.NewShop(a.Store, a.Sessions, publisher, logger)
	return a, nil
}

func connectCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *cache.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	c := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, token revocation disabled")
		c.Close()
		return nil
	}
	return c
}

// Close releases every connection in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
