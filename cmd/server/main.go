package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rentalworks/gearcheck/internal/api"
	"github.com/rentalworks/gearcheck/internal/config"
	"github.com/rentalworks/gearcheck/internal/db"
	"github.com/rentalworks/gearcheck/internal/middleware"
)

func main() {
	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store, middleware.SignToken).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "GearCheck API",
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	// Serve the bundled frontend when a static dir is configured.
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.WithAuth(mux))))

	log.Printf("GearCheck server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore returns the SQLite-backed store when a path is configured,
// otherwise an in-memory store for zero-config runs.
func openStore(cfg *config.Config) (api.Store, error) {
	if cfg.SQLitePath == "" {
		log.Println("GEARCHECK_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), nil
	}
	conn, err := sql.Open("sqlite3", cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(conn, cfg.MigrationsDir); err != nil {
		return nil, err
	}
	return db.NewStore(conn)
}
