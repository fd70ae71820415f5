package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can route and retain them differently.
type EventCategory string

const (
	// CategoryOperations covers routine activity: calculations, generations, cache use.
	// These can be sampled.
	CategoryOperations EventCategory = "operations"

	// CategorySecurity covers abuse signals such as rate limiting and bad share tokens.
	CategorySecurity EventCategory = "security"

	// CategoryBilling covers events that carry model spend.
	CategoryBilling EventCategory = "billing"
)

type AuditEvent string

const (
	EventNumerologyCalculated AuditEvent = "numerology_calculated"
	EventReportGenerated      AuditEvent = "report_generated"
	EventReportServedCached   AuditEvent = "report_served_cached"
	EventReportFailed         AuditEvent = "report_failed"
	EventReportShared         AuditEvent = "report_shared"
	EventShareRejected        AuditEvent = "share_rejected"

	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
	EventAllowlistBypassed AuditEvent = "allowlist_bypassed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventNumerologyCalculated: CategoryOperations,
	EventReportServedCached:   CategoryOperations,
	EventReportShared:         CategoryOperations,

	EventReportGenerated: CategoryBilling,
	EventReportFailed:    CategoryBilling,

	EventShareRejected:     CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,
	EventAllowlistBypassed: CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Subject never holds a raw birth date: it is a report ID, an input
// fingerprint or an anonymized IP prefix.
type Event struct {
	ID        string            `json:"id"`
	Action    AuditEvent        `json:"action"`
	Category  EventCategory     `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Subject   string            `json:"subject"`
	RequestID string            `json:"request_id,omitempty"`
	TraceID   string            `json:"trace_id,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Attrs     map[string]string `json:"attributes,omitempty"`
}

// Store persists or forwards events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// NopEmitter discards events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) error { return nil }
