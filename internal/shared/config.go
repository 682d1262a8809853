package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string

	MySQLDSN        string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	BcryptCost      int
	CacheBackend    string // redis|memory|none
	CacheTTL        time.Duration
	LocalCacheItems int
	RedisAddr       string
	RedisDB         int
	RedisPass       string

	FeedBase       string
	FeedKey        string
	FeedRPS        int
	ImportWorkers  int
	ImportPageSize int
	ImportOwnerID  int64
	ImportMaxPages int
}

// Load reads the environment, after loading a .env file when one is present.
// Variables already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(env("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr: env("METRICS_ADDR", ""),

		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/lightbnb?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		DBMaxOpenConns:  atoi("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:  atoi("DB_MAX_IDLE_CONNS", 10),
		DBConnLifetime:  time.Duration(atoi("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
		BcryptCost:      atoi("BCRYPT_COST", 0),
		CacheBackend:    env("CACHE_BACKEND", "redis"),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		LocalCacheItems: atoi("LOCAL_CACHE_ITEMS", 5000),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),

		FeedBase:       env("FEED_BASE_URL", ""),
		FeedKey:        env("FEED_API_KEY", ""),
		FeedRPS:        atoi("FEED_RPS", 5),
		ImportWorkers:  atoi("IMPORT_WORKERS", 8),
		ImportPageSize: atoi("IMPORT_PAGE_SIZE", 50),
		ImportOwnerID:  int64(atoi("IMPORT_OWNER_ID", 0)),
		ImportMaxPages: atoi("IMPORT_MAX_PAGES", 1000),
	}
	// zero workers would block the importer forever on its semaphore
	c.ImportWorkers = atLeastOne("IMPORT_WORKERS", c.ImportWorkers)
	c.ImportPageSize = atLeastOne("IMPORT_PAGE_SIZE", c.ImportPageSize)
	c.ImportMaxPages = atLeastOne("IMPORT_MAX_PAGES", c.ImportMaxPages)
	switch c.CacheBackend {
	case "redis", "memory", "none":
	default:
		log.Warn().Str("backend", c.CacheBackend).Msg("unknown CACHE_BACKEND; caching disabled")
		c.CacheBackend = "none"
	}
	return c
}

func atLeastOne(k string, n int) int {
	if n < 1 {
		log.Warn().Str("key", k).Int("value", n).Msg("must be at least 1; using 1")
		return 1
	}
	return n
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
