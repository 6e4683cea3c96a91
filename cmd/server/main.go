package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/soaringjerry/Scorecard/internal/api"
	"github.com/soaringjerry/Scorecard/internal/middleware"
	"github.com/soaringjerry/Scorecard/internal/storage"
	"github.com/soaringjerry/Scorecard/internal/utils"
)

// openStore picks the backing store from the environment:
// SCORECARD_DB (sqlite path) wins over SCORECARD_DATA (json directory);
// with neither set, records live in memory for the process lifetime.
func openStore() (storage.Store, string) {
	if path := os.Getenv("SCORECARD_DB"); path != "" {
		store, err := storage.OpenSQLite(path)
		if err != nil {
			log.Fatalf("open sqlite store %s: %v", path, err)
		}
		return store, "sqlite:" + path
	}
	if dir := os.Getenv("SCORECARD_DATA"); dir != "" {
		store, err := storage.NewJSONFileStore(dir)
		if err != nil {
			log.Fatalf("open json store %s: %v", dir, err)
		}
		return store, "json:" + dir
	}
	return storage.NewMemoryStore(), "memory"
}

func main() {
	_ = godotenv.Load()

	addr := utils.SafeEnv("SCORECARD_ADDR", ":8080")
	commit := os.Getenv("SCORECARD_COMMIT")
	buildTime := os.Getenv("SCORECARD_BUILD_TIME")

	store, backend := openStore()

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Scorecard API",
			"backend":    backend,
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.WithAuth(mux))))

	log.Printf("Scorecard server listening on %s (store: %s)", addr, backend)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
