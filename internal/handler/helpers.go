package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/form"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/resilience"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseRecent reads ?recent=N; absent or invalid means the full list.
func parseRecent(r *http.Request) (n int, ok bool) {
	v := r.URL.Query().Get("recent")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var derr *domain.Error

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		logger.Debug("not authenticated", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrTokenNotReturned):
		logger.Warn("login returned no token")
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, form.ErrBusy):
		logger.Debug("duplicate submission", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &derr):
		status := statusFor(derr)
		switch derr.Kind {
		case domain.KindValidation:
			logger.Debug("validation error", zap.String("error", derr.Message), zap.String("field", derr.Field))
		case domain.KindTransport:
			if resilience.IsOpen(err) {
				logger.Error("circuit breaker open", zap.Error(err))
			} else {
				logger.Error("backend unreachable", zap.Error(err))
			}
		default:
			logger.Warn("backend rejected request", zap.Int("status", derr.Status), zap.String("error", derr.Message))
		}
		writeJSON(w, status, errorResponse{Error: derr.Message, Kind: derr.Kind.String(), Field: derr.Field})
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func statusFor(e *domain.Error) int {
	switch e.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindStatus:
		// client errors pass through; backend faults are the gateway's problem
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadGateway
	case domain.KindTransport:
		if resilience.IsOpen(e) {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case domain.KindComposite:
		return http.StatusMultiStatus
	}
	return http.StatusInternalServerError
}
