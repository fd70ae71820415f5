// Package handler exposes numerology calculation and report endpoints over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifepath/internal/numerology"
	"lifepath/internal/ratelimit/models"
	"lifepath/internal/report/service"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/httputil"
	"lifepath/pkg/requestcontext"
)

// Service defines the report operations the handler needs.
type Service interface {
	Calculate(ctx context.Context, birthDate string, gender *numerology.Gender) (numerology.Result, error)
	Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error)
	Get(ctx context.Context, id string) (*service.GenerateResult, error)
	Share(ctx context.Context, id string) (*service.ShareLink, error)
	ResolveShare(ctx context.Context, token string) (*service.GenerateResult, error)
}

// RouteLimiter returns per-class rate limiting middleware.
type RouteLimiter interface {
	RateLimit(class models.EndpointClass) func(http.Handler) http.Handler
}

type Handler struct {
	service Service
	logger  *slog.Logger
	limiter RouteLimiter
}

type Option func(*Handler)

// WithRateLimiter limits generation and read routes by client IP.
func WithRateLimiter(l RouteLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		h.limit(r, models.ClassGenerate)
		r.Post("/api/generate-report", h.HandleGenerate)
	})
	r.Group(func(r chi.Router) {
		h.limit(r, models.ClassRead)
		r.Post("/api/numerology", h.HandleCalculate)
		r.Get("/api/reports/{id}", h.HandleGet)
		r.Post("/api/reports/{id}/share", h.HandleShare)
		r.Get("/api/shared/{token}", h.HandleShared)
	})
}

func (h *Handler) limit(r chi.Router, class models.EndpointClass) {
	if h.limiter != nil {
		r.Use(h.limiter.RateLimit(class))
	}
}

// HandleCalculate handles POST /api/numerology.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BirthRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Calculate(ctx, req.Birthday, req.ParsedGender())
	if err != nil {
		h.logFailure(ctx, "numerology calculation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCalculation(result))
}

// HandleGenerate handles POST /api/generate-report. Generation can take
// minutes; the server's write timeout accounts for it.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BirthRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Generate(ctx, service.GenerateRequest{
		BirthDate: req.Birthday,
		Gender:    req.ParsedGender(),
	})
	if err != nil {
		h.logFailure(ctx, "report generation failed", err)
		writeGenerateError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "report served",
		"request_id", requestID,
		"report_id", result.ID,
		"cached", result.Cached,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGet handles GET /api/reports/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "report lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleShare handles POST /api/reports/{id}/share.
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	link, err := h.service.Share(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "share link creation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromShareLink(link))
}

// HandleShared handles GET /api/shared/{token}.
func (h *Handler) HandleShared(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.ResolveShare(ctx, chi.URLParam(r, "token"))
	if err != nil {
		h.logFailure(ctx, "shared report lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"code", string(dErrors.CodeOf(err)),
		"error", err,
	}
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, args...)
		return
	}
	h.logger.ErrorContext(ctx, msg, args...)
}

// writeGenerateError keeps the user-facing message for internal failures,
// which WriteError would otherwise drop.
func writeGenerateError(w http.ResponseWriter, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
		Error:       string(dErrors.CodeInternal),
		Description: service.MsgGenerationFailed,
	})
}
