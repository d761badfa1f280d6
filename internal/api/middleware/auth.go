package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/amaumene/gomeshelf/internal/services/session"
	"github.com/sirupsen/logrus"
)

// SetupChecker reports whether the admin account exists
type SetupChecker interface {
	HasUsers(ctx context.Context) (bool, error)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SetupGate refuses every request with 403 until the admin account exists
func SetupGate(checker SetupChecker, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done, err := checker.HasUsers(r.Context())
			if err != nil {
				logger.WithError(err).Error("Failed to check setup state")
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !done {
				writeError(w, http.StatusForbidden, "Setup required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without a valid session cookie
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := sessions.FromRequest(r); err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
