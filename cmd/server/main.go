package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/slowwearcrew/pawportal/internal/api"
	dbstore "github.com/slowwearcrew/pawportal/internal/db"
	"github.com/slowwearcrew/pawportal/internal/middleware"
	"github.com/slowwearcrew/pawportal/internal/utils"
)

func openStore() (api.Store, error) {
	dbPath := os.Getenv("PAWPORTAL_DB")
	if dbPath == "" {
		log.Printf("PAWPORTAL_DB not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(dbPath))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := dbstore.RunMigrations(sqliteDB, os.Getenv("PAWPORTAL_MIGRATIONS_DIR")); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return dbstore.NewStore(sqliteDB)
}

func main() {
	addr := utils.SafeEnv("PAWPORTAL_ADDR", ":8080")
	commit := os.Getenv("PAWPORTAL_COMMIT")
	buildTime := os.Getenv("PAWPORTAL_BUILD_TIME")

	store, err := openStore()
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "PawPortal API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Static portal pages when bundled into the image.
	if staticDir := os.Getenv("PAWPORTAL_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.SecureHeaders(
		middleware.CORS(
			middleware.NoStore(
				middleware.LocaleMiddleware(
					middleware.WithAuth(mux)))))

	log.Printf("PawPortal server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
