package main

import (
	"context"
	"database/sql"
	"errors"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lightbnb/internal/adapters/feed"
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

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.ImportWorkers).
		Int("page_size", cfg.ImportPageSize).
		Int("max_pages", cfg.ImportMaxPages).
		Msg("importer starting")

	if cfg.ImportOwnerID <= 0 {
		log.Fatal().Msg("IMPORT_OWNER_ID must be set to the user that owns imported listings")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.ImportWorkers)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	owner, err := repo.GetUserWithID(ctx, cfg.ImportOwnerID)
	if err != nil {
		log.Fatal().Err(err).Msg("owner lookup failed")
	}
	if owner == nil {
		log.Fatal().Int64("owner_id", cfg.ImportOwnerID).Msg("owner does not exist")
	}

	client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}

	// imports bump the listing version so API caches drop stale searches
	var cache domain.Cache
	if cfg.CacheBackend == "redis" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	cmd := app.NewCommandService(repo, cache, cfg.BcryptCost)
	imp := app.NewImportService(client, cmd, cfg.ImportOwnerID)

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var ok, skipped, failed atomic.Int64

pages:
	for page := 1; ; page++ {
		if page > cfg.ImportMaxPages {
			log.Warn().Int("max_pages", cfg.ImportMaxPages).Msg("page limit reached; stopping")
			break
		}
		listings, err := imp.FetchPage(ctx, page, cfg.ImportPageSize)
		if err != nil {
			if errors.Is(err, feed.ErrNotFound) {
				break // past the last page
			}
			if errors.Is(err, app.ErrRepeatedPage) {
				log.Warn().Int("page", page).Msg("feed ignores paging; stopping")
				break
			}
			log.Error().Int("page", page).Err(err).Msg("fetch page failed; stopping")
			break
		}
		if len(listings) == 0 {
			break
		}

		for _, l := range listings {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn().Err(err).Msg("import interrupted")
				break pages
			}

			wg.Add(1)
			go func(raw map[string]any) {
				defer wg.Done()
				defer sem.Release(1)

				p, err := imp.ImportListing(ctx, raw)
				switch {
				case errors.Is(err, app.ErrSkipped):
					skipped.Add(1)
					observability.ObserveImport("skipped")
					log.Warn().Err(err).Msg("listing skipped")
				case err != nil:
					failed.Add(1)
					observability.ObserveImport("failed")
					log.Error().Err(err).Str("err_type", observability.LabelErr(err)).Msg("listing import failed")
				default:
					ok.Add(1)
					observability.ObserveImport("ok")
					log.Debug().Int64("id", p.ID).Str("title", p.Title).Msg("listing imported")
				}
			}(l)
		}
		log.Info().Int("page", page).Int("listings", len(listings)).Msg("page queued")
	}

	wg.Wait()
	log.Info().
		Int64("ok", ok.Load()).
		Int64("skipped", skipped.Load()).
		Int64("failed", failed.Load()).
		Msg("import completed")
}
