package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/form"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/notice"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/orchestrator"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/repository"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/service"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/session"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

const (
	maxUploadBytes = 10 << 20
	maxFormBytes   = 1 << 20
)

// Deps are the components the shell exposes.
type Deps struct {
	Session      *session.Session
	Auth         *service.AuthService
	Orchestrator *orchestrator.Orchestrator
	Repos        *repository.Set
	Forms        *form.Forms
	Uploader     *upload.Uploader
	Notices      *notice.Feed
	Metrics      *observability.Metrics
	BaseURL      string
	Logger       *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
// The page renderer talks to these routes; it never calls the backend itself.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(d.BaseURL))
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		// Session & navigation
		r.Get("/state", stateHandler(d))
		r.Post("/session", loginHandler(d))
		r.Delete("/session", logoutHandler(d))
		r.Put("/page", setPageHandler(d))
		r.Get("/notices", noticesHandler(d.Notices))

		// Lists
		r.Get("/addresses", listHandler(d.Repos.Addresses))
		r.Get("/customers", listHandler(d.Repos.Customers))
		r.Get("/suppliers", listHandler(d.Repos.Suppliers))
		r.Get("/products", listHandler(d.Repos.Products))
		r.Get("/materials", listHandler(d.Repos.Materials))
		r.Get("/phones", listHandler(d.Repos.Phones))

		// Forms
		r.Get("/forms", formNamesHandler(d.Forms))
		r.Get("/forms/{form}", formStateHandler(d.Forms))
		r.Patch("/forms/{form}", formEditHandler(d.Forms, logger))
		r.Delete("/forms/{form}", formResetHandler(d.Forms))
		r.With(RequireSession(d.Session, logger)).Post("/forms/{form}", formSubmitHandler(d.Forms, logger))

		// Uploads
		r.With(RequireSession(d.Session, logger)).Post("/uploads", uploadHandler(d.Uploader, logger))
		r.Get("/previews/{id}", previewHandler(d.Uploader))
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "backend": baseURL})
	}
}

// ============================================================
// Session & navigation
// ============================================================

type stateResponse struct {
	Authenticated bool                    `json:"authenticated"`
	Page          domain.Page             `json:"page"`
	Pages         []domain.Page           `json:"pages"`
	Claims        session.Claims          `json:"claims"`
	Sizes         map[domain.Resource]int `json:"sizes"`
	Metrics       observability.Snapshot  `json:"metrics"`
	BaseURL       string                  `json:"baseUrl"`
}

func currentState(d Deps) stateResponse {
	return stateResponse{
		Authenticated: d.Session.IsAuthenticated(),
		Page:          d.Orchestrator.Page(),
		Pages:         domain.Pages,
		Claims:        d.Session.Claims(),
		Sizes:         d.Repos.Sizes(),
		Metrics:       d.Metrics.Snapshot(),
		BaseURL:       d.BaseURL,
	}
}

func stateHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentState(d))
	}
}

func loginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Auth.Login(ctx, &req); err != nil {
			d.Notices.Error(domain.MessageOf(err))
			handleServiceError(w, err, d.Logger)
			return
		}

		writeJSON(w, http.StatusOK, currentState(d))
	}
}

func logoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/session")
		defer span.End()

		if err := d.Auth.Logout(ctx); err != nil {
			handleServiceError(w, err, d.Logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type pageRequest struct {
	Page string `json:"page"`
}

func setPageHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/page")
		defer span.End()

		var req pageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("page", req.Page))

		page, err := domain.ParsePage(req.Page)
		if err != nil {
			handleServiceError(w, err, d.Logger)
			return
		}

		if err := d.Orchestrator.SetPage(ctx, page); err != nil {
			if errors.Is(err, domain.ErrNotAuthenticated) {
				handleServiceError(w, err, d.Logger)
				return
			}
			// load failures are already on the notice feed
			d.Logger.Warn("page loaded with errors", zap.String("page", req.Page), zap.Error(err))
		}

		writeJSON(w, http.StatusOK, currentState(d))
	}
}

func noticesHandler(feed *notice.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, feed.Drain())
	}
}

// ============================================================
// Lists
// ============================================================

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// listHandler serves the held list, or its most recent N with ?recent=N.
// It never calls the backend; loading is the orchestrator's job.
func listHandler[T domain.Entity](repo *repository.Repository[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := repo.Items()
		total := len(items)
		if n, ok := parseRecent(r); ok {
			items = repo.Recent(n)
		}
		writeJSON(w, http.StatusOK, listResponse[T]{Data: items, Total: total})
	}
}

// ============================================================
// Forms
// ============================================================

func lookupForm(forms *form.Forms, w http.ResponseWriter, r *http.Request) (form.Handle, bool) {
	name := chi.URLParam(r, "form")
	h, ok := forms.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form "+name)
	}
	return h, ok
}

func formNamesHandler(forms *form.Forms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, forms.Names())
	}
}

func formStateHandler(forms *form.Forms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := lookupForm(forms, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, h.Snapshot())
	}
}

func formEditHandler(forms *form.Forms, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := lookupForm(forms, w, r)
		if !ok {
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.Apply(body); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, h.Snapshot())
	}
}

func formResetHandler(forms *form.Forms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := lookupForm(forms, w, r)
		if !ok {
			return
		}
		h.Reset()
		writeJSON(w, http.StatusOK, h.Snapshot())
	}
}

type submitResponse struct {
	Record any    `json:"record"`
	Error  string `json:"error,omitempty"`
}

// formSubmitHandler applies an optional body to the draft, then submits.
// The shell handles the submission itself; nothing navigates.
func formSubmitHandler(forms *form.Forms, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := lookupForm(forms, w, r)
		if !ok {
			return
		}
		ctx, span := tracer.Start(r.Context(), "POST /v1/forms/{form}")
		defer span.End()
		span.SetAttributes(attribute.String("form", h.Name()))

		body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.Apply(body); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		rec, err := h.Send(ctx)
		if domain.KindOf(err) == domain.KindComposite {
			writeJSON(w, http.StatusMultiStatus, submitResponse{Record: rec, Error: err.Error()})
			return
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, submitResponse{Record: rec})
	}
}

// ============================================================
// Uploads
// ============================================================

func uploadHandler(u *upload.Uploader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/uploads")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read file")
			return
		}

		res, err := u.Upload(ctx, client.Multipart{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func previewHandler(u *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := u.Preview(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "preview not found")
			return
		}
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(p.Content)
	}
}
