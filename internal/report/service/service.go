// Package service orchestrates numerology calculation, report generation,
// persistence, caching and share links.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"lifepath/internal/numerology"
	"lifepath/internal/report"
	"lifepath/internal/report/metrics"
	"lifepath/pkg/attrs"
	dErrors "lifepath/pkg/domain-errors"
	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/platform/circuit"
	"lifepath/pkg/platform/middleware/metadata"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/requestcontext"
)

// Generator produces raw report JSON from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt report.Prompt) (*report.Generation, error)
	Model() string
}

type RecordStore interface {
	Save(ctx context.Context, rec report.Record) error
	FindByID(ctx context.Context, id string) (report.Record, error)
	FindLatestByFingerprint(ctx context.Context, fingerprint string) (report.Record, error)
}

type Cache interface {
	Get(ctx context.Context, fingerprint string) (report.Record, error)
	Set(ctx context.Context, rec report.Record) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// GenerateRequest is a validated generate call.
type GenerateRequest struct {
	BirthDate string
	Gender    *numerology.Gender
}

// GenerateResult is a generated or cached report.
type GenerateResult struct {
	ID           string
	Report       *report.Report
	Calculations numerology.Result
	Usage        report.Usage
	Cost         report.Cost
	Model        string
	Cached       bool
	CreatedAt    time.Time
}

// ShareLink is a signed, expiring link to a stored report.
type ShareLink struct {
	Token     string
	ExpiresAt time.Time
	URL       string
}

// Service orchestrates the report lifecycle.
type Service struct {
	generator     Generator
	records       RecordStore
	fingerprinter *report.Fingerprinter
	cache         Cache
	cacheBreaker  *circuit.Breaker
	signer        *ShareSigner
	shareBaseURL  string
	language      string
	referenceYear int
	pricing       report.Pricing
	logger        *slog.Logger
	auditor       AuditPublisher
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	inflight      singleflight.Group
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache puts a fingerprint cache in front of the record store.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithSharing enables share links under baseURL.
func WithSharing(signer *ShareSigner, baseURL string) Option {
	return func(s *Service) {
		s.signer = signer
		s.shareBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLanguage sets the report language by display name, e.g. "Mandarin".
func WithLanguage(language string) Option {
	return func(s *Service) {
		if language != "" {
			s.language = language
		}
	}
}

// WithReferenceYear pins the year ages are computed against. Zero uses the
// year of the request time.
func WithReferenceYear(year int) Option {
	return func(s *Service) {
		s.referenceYear = year
	}
}

func WithPricing(p report.Pricing) Option {
	return func(s *Service) {
		s.pricing = p
	}
}

// New constructs a Service. The generator may be nil, in which case only
// Calculate, Get and share resolution work.
func New(generator Generator, records RecordStore, fingerprinter *report.Fingerprinter, opts ...Option) *Service {
	s := &Service{
		generator:     generator,
		records:       records,
		fingerprinter: fingerprinter,
		cacheBreaker:  circuit.New("report-cache"),
		language:      report.DefaultLanguage,
		pricing:       report.DefaultPricing,
		logger:        slog.Default(),
		tracer:        otel.Tracer("lifepath/internal/report/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate returns the numerology result for a birth date.
func (s *Service) Calculate(ctx context.Context, birthDate string, gender *numerology.Gender) (numerology.Result, error) {
	birth, result, refYear, err := s.calculate(ctx, birthDate, gender)
	if err != nil {
		return numerology.Result{}, err
	}
	s.metrics.IncrementCalculation(result.LifePath.Number)
	s.logAudit(ctx, audit.EventNumerologyCalculated, s.fingerprint(birth.String(), result, refYear, ""),
		"life_path", result.LifePath.Number,
		"master", result.LifePath.IsMaster,
		"reference_year", refYear,
	)
	return result, nil
}

// Generate returns the report for a birth date, from cache when possible.
// Concurrent identical requests share one model call.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	ctx, span := s.tracer.Start(ctx, "report.Generate")
	defer span.End()

	birth, result, refYear, err := s.calculate(ctx, req.BirthDate, req.Gender)
	if err != nil {
		span.SetStatus(codes.Error, "invalid birth date")
		return nil, err
	}
	if s.generator == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, MsgConfiguration)
	}
	fp := s.fingerprint(birth.String(), result, refYear, s.generator.Model())
	span.SetAttributes(attribute.String("report.fingerprint", fp))

	if rec, ok := s.lookup(ctx, fp); ok {
		span.SetAttributes(attribute.Bool("report.cached", true))
		s.metrics.IncrementOutcome(outcomeCached)
		s.logAudit(ctx, audit.EventReportServedCached, rec.ID, "fingerprint", fp)
		return toResult(rec, true), nil
	}

	leader := false
	ch := s.inflight.DoChan(fp, func() (any, error) {
		leader = true
		// Detached so a disconnecting client does not waste a paid generation.
		return s.generateAndStore(context.WithoutCancel(ctx), birth, result, fp)
	})

	select {
	case <-ctx.Done():
		_, derr := classifyGeneration(ctx.Err())
		span.SetStatus(codes.Error, ctx.Err().Error())
		return nil, derr
	case res := <-ch:
		if res.Shared && !leader {
			s.metrics.IncrementDeduplicated()
		}
		if res.Err != nil {
			span.SetStatus(codes.Error, res.Err.Error())
			return nil, res.Err
		}
		rec := res.Val.(report.Record)
		span.SetAttributes(attribute.String("report.id", rec.ID))
		return toResult(rec, false), nil
	}
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, id string) (*GenerateResult, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return toResult(rec, false), nil
}

// Share issues a signed link to a stored report.
func (s *Service) Share(ctx context.Context, id string) (*ShareLink, error) {
	if s.signer == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "report sharing is not configured")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Sign(id, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign share link")
	}
	s.logAudit(ctx, audit.EventReportShared, id, "expires_at", expiresAt.UTC().Format(time.RFC3339))
	return &ShareLink{
		Token:     token,
		ExpiresAt: expiresAt,
		URL:       s.shareBaseURL + "/api/shared/" + token,
	}, nil
}

// ResolveShare returns the report a share token points to.
func (s *Service) ResolveShare(ctx context.Context, token string) (*GenerateResult, error) {
	if s.signer == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "report sharing is not configured")
	}
	id, err := s.signer.Verify(token, requestcontext.Now(ctx))
	if err != nil {
		reason := "invalid"
		msg := "invalid share link"
		if errors.Is(err, errShareExpired) {
			reason = "expired"
			msg = "share link has expired"
		}
		s.logAudit(ctx, audit.EventShareRejected, clientSubject(ctx), "reason", reason)
		return nil, dErrors.New(dErrors.CodeUnauthorized, msg)
	}
	return s.Get(ctx, id)
}

func (s *Service) calculate(ctx context.Context, birthDate string, gender *numerology.Gender) (numerology.BirthDate, numerology.Result, int, error) {
	birth, err := numerology.ParseBirthDate(birthDate)
	if err != nil {
		var ve *numerology.ValidationError
		if errors.As(err, &ve) {
			s.logger.InfoContext(ctx, "birth date rejected",
				"request_id", requestcontext.RequestID(ctx),
				"reason", ve.Detail(),
			)
		}
		return numerology.BirthDate{}, numerology.Result{}, 0, validationError(err)
	}
	refYear := s.referenceYear
	if refYear == 0 {
		refYear = requestcontext.Now(ctx).Year()
	}
	return birth, numerology.Compute(birth, normalizeGender(gender), refYear), refYear, nil
}

func (s *Service) generateAndStore(ctx context.Context, birth numerology.BirthDate, result numerology.Result, fp string) (report.Record, error) {
	requestID := requestcontext.RequestID(ctx)
	prompt, err := report.BuildPrompt(result, s.language)
	if err != nil {
		return report.Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build prompt")
	}

	start := time.Now()
	gen, err := s.generator.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		outcome, derr := classifyGeneration(err)
		s.metrics.ObserveGeneration(outcome, elapsed)
		s.metrics.IncrementOutcome(outcome)
		s.logger.ErrorContext(ctx, "report generation failed",
			"request_id", requestID,
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		s.logAudit(ctx, audit.EventReportFailed, fp, "reason", outcome)
		return report.Record{}, derr
	}

	rpt, err := report.DecodeReport(gen.Raw)
	if err != nil {
		s.metrics.ObserveGeneration(outcomeError, elapsed)
		s.metrics.IncrementOutcome(outcomeError)
		s.logger.ErrorContext(ctx, "model returned an undecodable report",
			"request_id", requestID,
			"bytes", len(gen.Raw),
			"error", err,
		)
		s.logAudit(ctx, audit.EventReportFailed, fp, "reason", "malformed")
		return report.Record{}, dErrors.New(dErrors.CodeInternal, MsgGenerationFailed)
	}
	if err := rpt.Check(); err != nil {
		s.logger.WarnContext(ctx, "report deviates from requested shape",
			"request_id", requestID,
			"error", err,
		)
	}

	model := gen.Model
	if model == "" {
		model = s.generator.Model()
	}
	cost := gen.Usage.Cost(s.pricing)
	rec := report.Record{
		ID:           uuid.NewString(),
		Fingerprint:  fp,
		BirthYear:    birth.Year,
		Gender:       result.GenderValue(),
		Language:     s.language,
		Model:        model,
		Report:       rpt,
		Calculations: result,
		Usage:        gen.Usage,
		Cost:         cost,
		CreatedAt:    requestcontext.Now(ctx),
	}

	if err := s.records.Save(ctx, rec); err != nil {
		// The caller still gets the paid-for report; only history is lost.
		s.logger.ErrorContext(ctx, "failed to persist report",
			"request_id", requestID,
			"report_id", rec.ID,
			"error", err,
		)
	}
	s.storeInCache(ctx, rec)

	s.metrics.ObserveGeneration(outcomeOK, elapsed)
	s.metrics.IncrementOutcome(outcomeOK)
	s.metrics.AddUsage(gen.Usage, cost)
	s.logAudit(ctx, audit.EventReportGenerated, rec.ID,
		"fingerprint", fp,
		"model", model,
		"prompt_tokens", gen.Usage.PromptTokens,
		"candidate_tokens", gen.Usage.CandidateTokens,
		"thought_tokens", gen.Usage.ThoughtTokens,
		"cost", strconv.FormatFloat(cost.Amount, 'f', 6, 64),
		"currency", cost.Currency,
		"duration_ms", elapsed.Milliseconds(),
	)
	return rec, nil
}

// lookup checks the cache, then the record store.
func (s *Service) lookup(ctx context.Context, fp string) (report.Record, bool) {
	if s.cache != nil {
		rec, err := s.cache.Get(ctx, fp)
		switch {
		case err == nil:
			s.cacheSucceeded(ctx)
			s.metrics.IncrementCache("hit")
			return rec, true
		case errors.Is(err, sentinel.ErrNotFound):
			s.cacheSucceeded(ctx)
			s.metrics.IncrementCache("miss")
		default:
			s.cacheFailed(ctx, err)
			s.metrics.IncrementCache("error")
		}
	}

	rec, err := s.records.FindLatestByFingerprint(ctx, fp)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "record lookup by fingerprint failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return report.Record{}, false
	}
	s.metrics.IncrementCache("store_hit")
	s.storeInCache(ctx, rec)
	return rec, true
}

func (s *Service) storeInCache(ctx context.Context, rec report.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, rec); err != nil {
		s.cacheFailed(ctx, err)
		return
	}
	s.cacheSucceeded(ctx)
}

func (s *Service) cacheFailed(ctx context.Context, err error) {
	_, change := s.cacheBreaker.RecordFailure()
	s.logger.WarnContext(ctx, "report cache error",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	if change.Opened {
		s.logger.ErrorContext(ctx, "report cache circuit opened",
			"breaker", s.cacheBreaker.Name(),
		)
	}
}

func (s *Service) cacheSucceeded(ctx context.Context) {
	if _, change := s.cacheBreaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "report cache circuit closed",
			"breaker", s.cacheBreaker.Name(),
		)
	}
}

func (s *Service) fingerprint(birthDate string, result numerology.Result, refYear int, model string) string {
	return s.fingerprinter.Fingerprint(report.FingerprintInput{
		BirthDate:     birthDate,
		Gender:        result.GenderValue(),
		Language:      s.language,
		ReferenceYear: refYear,
		Model:         model,
	})
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, subject string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	args := append([]any{"event", string(event), "log_type", "audit", "subject", subject, "request_id", requestID}, attributes...)
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    event,
		Subject:   subject,
		RequestID: requestID,
		Attrs:     attrs.ToMap(attributes),
		Reason:    attrs.ExtractString(attributes, "reason"),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"event", string(event),
			"request_id", requestID,
			"error", err,
		)
	}
}

func toResult(rec report.Record, cached bool) *GenerateResult {
	return &GenerateResult{
		ID:           rec.ID,
		Report:       rec.Report,
		Calculations: rec.Calculations,
		Usage:        rec.Usage,
		Cost:         rec.Cost,
		Model:        rec.Model,
		Cached:       cached,
		CreatedAt:    rec.CreatedAt,
	}
}

func normalizeGender(g *numerology.Gender) *numerology.Gender {
	if g == nil {
		return nil
	}
	trimmed := numerology.Gender(strings.TrimSpace(string(*g)))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// clientSubject is the anonymized client network, for events about a caller
// with no report identity.
func clientSubject(ctx context.Context) string {
	ip := requestcontext.ClientIP(ctx)
	if ip == "" {
		return "unknown"
	}
	return metadata.Anonymize(ip)
}
