package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/arena-backend/internal/entity"
	"github.com/rocketscienceinc/arena-backend/internal/repository"
)

// PingHandler - liveness probe.
func PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

type statsReader interface {
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
}

// NewStatsHandler serves the lifetime kill/death tally for one display
// name: GET /stats?name=alice
func NewStatsHandler(logger *slog.Logger, stats statsReader) http.HandlerFunc {
	log := logger.With("component", "stats-handler")

	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name query parameter", http.StatusBadRequest)
			return
		}

		playerStats, err := stats.GetByName(r.Context(), name)
		if errors.Is(err, repository.ErrStatsNotFound) {
			http.Error(w, "stats not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("failed to get stats", "name", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(playerStats); err != nil {
			log.Error("failed to encode stats", "name", name, "error", err)
		}
	}
}
