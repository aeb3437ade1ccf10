// Package service holds AuthService, which exchanges credentials for a token and drives
// the session through login and logout.
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

// LoginPath is the backend login endpoint.
const LoginPath = "/auth/login"

// TokenHolder is the session cell. Implemented by *session.Session.
type TokenHolder interface {
	SetToken(v string) error
	IsAuthenticated() bool
}

// AuthService orchestrates authentication flows.
type AuthService struct {
	api     port.Requester
	session TokenHolder
	logger  *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(api port.Requester, session TokenHolder, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, session: session, logger: logger}
}

// ============================================================
// Login: POST /auth/login
// ============================================================

// Login posts the credentials and stores the returned token. Session
// listeners run before Login returns, so the first page loads are already
// under way.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return domain.NewValidation("email", "email is required")
	}
	if req.Password == "" {
		return domain.NewValidation("password", "password is required")
	}
	span.SetAttributes(attribute.String("email", req.Email))

	env, err := s.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   LoginPath,
		Body:   req,
	})
	if err != nil {
		s.logger.Warn("login: request failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	token := extractToken(env)
	if token == "" {
		s.logger.Warn("login: response carried no token", zap.String("email", req.Email))
		return domain.ErrTokenNotReturned
	}

	if err := s.session.SetToken(token); err != nil {
		// the token is held in memory; only persistence failed
		s.logger.Warn("login: token not persisted", zap.Error(err))
	}
	s.logger.Info("login: authenticated", zap.String("email", req.Email))
	return nil
}

// ============================================================
// Logout
// ============================================================

// Logout drops the token. Listeners clear every list before Logout returns.
func (s *AuthService) Logout(ctx context.Context) error {
	_, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if err := s.session.SetToken(""); err != nil {
		s.logger.Warn("logout: persisted token not removed", zap.Error(err))
	}
	s.logger.Info("logout: session cleared")
	return nil
}

// extractToken accepts accessToken or token, at the top level or under data.
func extractToken(env *client.Envelope) string {
	var top domain.LoginResponse
	if err := json.Unmarshal(env.Raw, &top); err == nil {
		if tok := top.TokenValue(); tok != "" {
			return tok
		}
	}

	var nested domain.LoginResponse
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &nested); err == nil {
			return nested.TokenValue()
		}
	}
	return ""
}
