// Package consumer reads audit events back from Kafka and dispatches them
// by category.
package consumer

import (
	"context"
	"log/slog"

	audit "lifepath/pkg/platform/audit"
)

// Handler processes one decoded event.
type Handler interface {
	Handle(ctx context.Context, event audit.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event audit.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event audit.Event) error {
	return f(ctx, event)
}

// Router dispatches events to category-specific handlers.
type Router struct {
	handlers map[audit.EventCategory]Handler
	fallback Handler
	logger   *slog.Logger
}

// NewRouter creates a category router with an optional fallback handler.
func NewRouter(logger *slog.Logger, fallback Handler) *Router {
	return &Router{
		handlers: make(map[audit.EventCategory]Handler),
		fallback: fallback,
		logger:   logger,
	}
}

// Register adds a handler for a category.
func (r *Router) Register(category audit.EventCategory, handler Handler) {
	r.handlers[category] = handler
}

// Handle routes the event by its category, or by its action's category
// when the producer left Category empty.
func (r *Router) Handle(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = event.Action.Category()
	}
	handler, ok := r.handlers[category]
	if !ok {
		if r.fallback != nil {
			return r.fallback.Handle(ctx, event)
		}
		r.logger.DebugContext(ctx, "no handler for category, skipping event",
			"category", category,
			"action", event.Action,
		)
		return nil
	}
	return handler.Handle(ctx, event)
}
