package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/catalog/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// queryFilters flattens the query string, keeping the first value per key.
func queryFilters(r *http.Request) map[string]string {
	q := r.URL.Query()
	filters := make(map[string]string, len(q))
	for key, values := range q {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}

type healthResponse struct {
	Status   string             `json:"status"`
	Database string             `json:"database,omitempty"`
	Imports  core.LimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Imports: s.limiter.Status()}
	status := http.StatusOK

	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			slog.Warn("health: database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}
	writeJSON(w, status, resp)
}
