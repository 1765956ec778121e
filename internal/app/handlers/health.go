package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger — то, что умеет проверить соединение (например *sql.DB)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler обрабатывает GET /health
func HealthHandler(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error("health check failed", slog.String("op", "handlers.HealthHandler"), slog.Any("error", err))
			writeJSON(w, log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
