// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"
)

// RegisterRoutes wires every endpoint onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Scoring configuration
	mux.HandleFunc("GET /factors", h.listFactors)
	mux.HandleFunc("GET /tiers", h.listTiers)
	mux.HandleFunc("POST /score", h.previewScore)

	// Users
	mux.HandleFunc("POST /users", h.createUser)
	mux.HandleFunc("GET /users", h.listUsers)
	mux.HandleFunc("GET /users/{email}", h.getUser)
	mux.HandleFunc("PUT /users/{email}", h.updateUser)
	mux.HandleFunc("DELETE /users/{email}", h.deleteUser)
	mux.HandleFunc("PUT /users/{email}/answers", h.saveAnswers)
	mux.HandleFunc("PUT /users/{email}/assessments/{factorID}", h.setAssessment)

	// Rankings
	mux.HandleFunc("GET /leaderboard", h.getLeaderboard)
	mux.HandleFunc("GET /export", h.exportUsers)
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request with method, path, status and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// CORS allows browser clients from any origin and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Code")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
