//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	server "lightbnb/internal/adapters/http_server"
	redisad "lightbnb/internal/adapters/redis"
	"lightbnb/internal/app"
	"lightbnb/internal/domain"
	mysqlrepo "lightbnb/internal/storage/mysql"
)

// ---------- helpers ----------

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func listTitles(t *testing.T, url string) []string {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	var body struct {
		Properties []domain.PropertyView `json:"properties"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := make([]string, 0, len(body.Properties))
	for _, p := range body.Properties {
		out = append(out, p.Title)
	}
	return out
}

// ---------- the test ----------
func TestHTTP_EndToEnd_ListingsWithRedisCache(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=lightbnb",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "lightbnb")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	// Wire the real stack: MySQL repo, redis cache, services, chi router
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	repo := mysqlrepo.New(db)
	srv := server.New(zerolog.Nop(), 5*time.Second)
	srv.MountHandlers(&server.Handlers{
		Q: app.NewQueryService(repo, cache, time.Minute),
		C: app.NewCommandService(repo, cache, 4),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Register the owner through the API
	res := postJSON(t, ts.URL+"/v1/users", `{"name":"Olive","email":"olive@example.com","password":"hunter22"}`)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", res.StatusCode)
	}
	var owner domain.User
	if err := json.NewDecoder(res.Body).Decode(&owner); err != nil {
		t.Fatalf("decode user: %v", err)
	}

	addProperty := func(title, city string, cost float64) {
		t.Helper()
		body := fmt.Sprintf(`{"owner_id":%d,"title":%q,"cost_per_night":%v,"street":"1 Main","city":%q,"province":"BC","post_code":"V0V","country":"Canada"}`,
			owner.ID, title, cost, city)
		res := postJSON(t, ts.URL+"/v1/properties", body)
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("add property %s: status %d", title, res.StatusCode)
		}
	}
	addProperty("Harbour loft", "Victoria", 150)
	addProperty("Alpaca farm", "vicuna", 75)

	got := listTitles(t, ts.URL+"/v1/properties?city=Vic")
	if len(got) != 1 || got[0] != "Harbour loft" {
		t.Fatalf("city=Vic: %v", got)
	}

	// Cached search is dropped once a new matching listing exists
	addProperty("Inner harbour suite", "Victoria", 99.5)
	got = listTitles(t, ts.URL+"/v1/properties?city=Vic")
	if len(got) != 2 || got[0] != "Inner harbour suite" {
		t.Fatalf("after insert, city=Vic: %v", got)
	}

	got = listTitles(t, ts.URL+"/v1/properties?maximum_price_per_night=100&limit=1")
	if len(got) != 1 || got[0] != "Alpaca farm" {
		t.Fatalf("cheapest under 100: %v", got)
	}

	login := postJSON(t, ts.URL+"/v1/users/login", `{"email":"olive@example.com","password":"hunter22"}`)
	if login.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", login.StatusCode)
	}

	bad, err := http.Get(ts.URL + "/v1/properties?minimum_rating=abc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid filter: status %d", bad.StatusCode)
	}
}
