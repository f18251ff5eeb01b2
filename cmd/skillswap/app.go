package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/messaging"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/postgres"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/redis"
	"github.com/skillswap/skillswap-hub/internal/interface/http/handlers"
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
	"github.com/skillswap/skillswap-hub/pkg/logger"
	"github.com/skillswap/skillswap-hub/pkg/retry"
)

// app holds the storage backends and shared infrastructure of one process.
type app struct {
	profiles      profile.Repository
	relationships matching.RelationshipRepository
	messages      chat.MessageLog

	db     *postgres.Connection
	cache  *redis.Cache
	bus    *messaging.InMemoryEventBus
	health *handlers.CompositeHealthChecker

	log     *logger.Logger
	closers []func()
}

// buildApp wires storage for cfg: the seeded memory stores in demo mode,
// otherwise PostgreSQL with an optional Redis profile cache.
func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		log:    log,
		health: handlers.NewCompositeHealthChecker(cfg.App.Version),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. ХРАНИЛИЩЕ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.App.Demo {
		if err := a.useMemory(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := a.usePostgres(ctx, cfg); err != nil {
			return nil, err
		}
		if cfg.Redis.Enabled {
			a.useRedis(ctx, cfg)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	a.bus = messaging.NewInMemoryEventBus(messaging.Config{
		AsyncMode:      true,
		WorkerPoolSize: 10,
		Logger:         log,
	})
	a.closers = append(a.closers, func() {
		log.Info("closing event bus")
		_ = a.bus.Close()
	})

	if err := a.bus.SubscribeAll(messaging.AuditLogger(log.Named("events"))); err != nil {
		return nil, fmt.Errorf("subscribe audit log: %w", err)
	}
	if a.cache != nil {
		if err := a.bus.SubscribeAll(messaging.RedisForwarder(a.cache, 2*time.Second)); err != nil {
			return nil, fmt.Errorf("subscribe redis forwarder: %w", err)
		}
	}

	return a, nil
}

func (a *app) useMemory(ctx context.Context) error {
	profiles := memory.NewProfileStore()
	relationships := memory.NewRelationshipStore()
	messages := memory.NewMessageLog()

	if err := memory.Seed(ctx, profiles, relationships, messages); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	a.profiles, a.relationships, a.messages = profiles, relationships, messages

	a.health.AddCheck("directory", func(context.Context) error {
		if profiles.Count() == 0 {
			return errors.New("profile directory is empty")
		}
		return nil
	})

	a.log.Info("using in-memory demo directory", logger.Int("profiles", profiles.Count()))
	return nil
}

func (a *app) usePostgres(ctx context.Context, cfg *config.Config) error {
	conn, err := connectPostgres(ctx, cfg, a.log)
	if err != nil {
		return err
	}
	a.db = conn
	a.closers = append(a.closers, func() {
		a.log.Info("closing database connection")
		conn.Close()
	})

	a.profiles = postgres.NewProfileRepository(conn)
	a.relationships = postgres.NewRelationshipRepository(conn)
	a.messages = postgres.NewMessageRepository(conn)
	a.health.AddCheck("postgres", handlers.NewDatabaseCheck(conn))
	return nil
}

// useRedis puts the profile cache in front of PostgreSQL. Redis being down
// only disables caching.
func (a *app) useRedis(ctx context.Context, cfg *config.Config) {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	if cfg.Redis.TTL > 0 {
		rc.TTL = cfg.Redis.TTL
	}

	a.log.Info("connecting to Redis", logger.String("addr", rc.Addr()))
	cache, err := redis.NewCache(rc)
	if err != nil {
		a.log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		return
	}
	a.cache = cache
	a.closers = append(a.closers, func() { _ = cache.Close() })

	breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
		a.log.Warn("circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})
	a.profiles = redis.NewCachedProfileRepository(a.profiles, cache, breaker, a.log)
	a.health.AddCheck("redis", handlers.NewCacheCheck(cache))
	a.log.Info("Redis profile cache enabled", logger.Duration("ttl", rc.TTL))
}

// publisher returns the event publisher for command handlers.
func (a *app) publisher() shared.EventPublisher {
	return a.bus
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// connectPostgres opens the pool, retrying while the database boots.
func connectPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	retrier := retry.StartupRetrier(func(attempt int, err error, delay time.Duration) {
		log.Warn("database not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	log.Info("connecting to database")
	var conn *postgres.Connection
	err := retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		if cfg.Database.URL != "" {
			conn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		} else {
			conn, err = postgres.NewConnection(ctx, postgresConfig(cfg.DB))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established")
	return conn, nil
}

func postgresConfig(db config.DBConfig) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.Host = db.Host
	pc.Port = db.Port
	pc.Database = db.Name
	pc.User = db.User
	pc.Password = db.Password
	pc.SSLMode = db.SSLMode
	pc.MaxConns = int32(db.MaxConns)
	pc.MinConns = int32(db.MinConns)
	pc.MaxConnLifetime = db.ConnMaxLifetime
	pc.MaxConnIdleTime = db.ConnMaxIdleTime
	pc.ConnectTimeout = db.ConnectTimeout
	return pc
}
