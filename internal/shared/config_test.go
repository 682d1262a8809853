package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lightbnb/internal/shared"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_BACKEND", "bogus")
	t.Setenv("IMPORT_WORKERS", "not-a-number")

	c := shared.Load()
	if c.CacheTTL != 30*time.Second || c.RedisDB != 2 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.CacheBackend != "none" {
		t.Fatalf("unknown backend should disable caching, got %q", c.CacheBackend)
	}
	if c.ImportWorkers != 8 || c.HTTPAddr != ":8080" {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(f, []byte("FEED_BASE_URL=https://feed.example.com\nHTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", f)
	t.Setenv("HTTP_ADDR", ":7000") // process env wins over the file
	t.Cleanup(func() { os.Unsetenv("FEED_BASE_URL") })

	c := shared.Load()
	if c.FeedBase != "https://feed.example.com" {
		t.Fatalf("FeedBase = %q", c.FeedBase)
	}
	if c.HTTPAddr != ":7000" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
}

func TestLoad_ImportBoundsAreAtLeastOne(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("IMPORT_WORKERS", "0")
	t.Setenv("IMPORT_PAGE_SIZE", "-5")
	t.Setenv("IMPORT_MAX_PAGES", "0")

	c := shared.Load()
	if c.ImportWorkers != 1 || c.ImportPageSize != 1 || c.ImportMaxPages != 1 {
		t.Fatalf("import bounds not clamped: workers=%d page_size=%d max_pages=%d",
			c.ImportWorkers, c.ImportPageSize, c.ImportMaxPages)
	}

	t.Setenv("IMPORT_WORKERS", "")
	t.Setenv("IMPORT_PAGE_SIZE", "")
	t.Setenv("IMPORT_MAX_PAGES", "")
	c = shared.Load()
	if c.ImportWorkers != 8 || c.ImportPageSize != 50 || c.ImportMaxPages != 1000 {
		t.Fatalf("import defaults: %+v", c)
	}
}
