package handler

import (
	"net/http"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/session"

	"go.uber.org/zap"
)

// RequireSession rejects requests while no token is held. Backend calls made
// without a token would fail anyway; this answers before any is issued.
func RequireSession(sess *session.Session, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sess.IsAuthenticated() {
				logger.Warn("shell: request without session",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "log in to continue")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
