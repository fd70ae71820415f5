package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"lifepath/internal/platform/config"
	"lifepath/internal/report/handler"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/audit/publisher"
	"lifepath/pkg/platform/httputil"
	"lifepath/pkg/platform/middleware/admin"
	"lifepath/pkg/platform/middleware/metadata"
	"lifepath/pkg/platform/middleware/request"
	"lifepath/pkg/platform/middleware/requesttime"
)

const healthCheckTimeout = 2 * time.Second

func newRouter(cfg config.Config, d *dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(d.logger))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.logger))
	r.Use(request.Timeout(cfg.Server.RequestTimeout))
	r.Use(request.Latency(d.httpMetrics))

	r.Get("/healthz", healthHandler(d.checks))
	r.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	handler.New(d.reports, d.logger, handler.WithRateLimiter(d.limiter)).Register(r)

	if cfg.Server.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.Server.AdminToken, d.logger))
			r.Get("/events", eventsHandler(d.events))
		})
	}

	return otelhttp.NewHandler(r, "lifepath",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler reports 503 when any configured backend fails its check.
func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
)

type eventsResponse struct {
	Subject string `json:"subject,omitempty"`
	Events  any    `json:"events"`
}

// eventsHandler lists recorded events for ?subject=, which is a report ID,
// an input fingerprint or an anonymized IP prefix. Without a subject it
// returns the most recent ?limit= events.
func eventsHandler(events *publisher.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		subject := query.Get("subject")

		var (
			list any
			err  error
		)
		if subject != "" {
			list, err = events.List(r.Context(), subject)
		} else {
			limit := defaultEventsLimit
			if raw := query.Get("limit"); raw != "" {
				n, convErr := strconv.Atoi(raw)
				if convErr != nil || n < 1 || n > maxEventsLimit {
					httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxEventsLimit)))
					return
				}
				limit = n
			}
			list, err = events.Recent(r.Context(), limit)
		}
		if errors.Is(err, publisher.ErrNotListable) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "events are forwarded to kafka and cannot be listed here"))
			return
		}
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list events"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, eventsResponse{Subject: subject, Events: list})
	}
}
