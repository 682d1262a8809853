package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "lightbnb/internal/adapters/http_server"
	"lightbnb/internal/adapters/localcache"
	"lightbnb/internal/adapters/observability"
	redisad "lightbnb/internal/adapters/redis"
	"lightbnb/internal/app"
	"lightbnb/internal/domain"
	"lightbnb/internal/shared"
	mysqlrepo "lightbnb/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	db := openDB(ctx, cfg)
	defer db.Close()

	// deps
	repo := mysqlrepo.New(db)
	cache := newCache(ctx, cfg)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewCommandService(repo, cache, cfg.BcryptCost)

	// http
	srv := server.New(log.Logger, cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("bye")
}

// openDB builds the process-wide pool; everything else receives it.
func openDB(ctx context.Context, cfg shared.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnLifetime)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Int("max_open", cfg.DBMaxOpenConns).Msg("database connection ok")
	return db
}

// newCache returns nil when caching is disabled or redis is unreachable;
// the services then read straight from MySQL.
func newCache(ctx context.Context, cfg shared.Config) domain.Cache {
	switch cfg.CacheBackend {
	case "redis":
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; caching disabled")
			_ = rc.Close()
			return nil
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
		return rc
	case "memory":
		return localcache.New(int64(cfg.LocalCacheItems))
	default:
		return nil
	}
}
