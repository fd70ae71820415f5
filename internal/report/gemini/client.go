// Package gemini generates reports with Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"lifepath/internal/report"
	"lifepath/pkg/requestcontext"
)

const (
	DefaultModel           = "gemini-2.5-pro"
	DefaultTimeout         = 180 * time.Second
	DefaultMaxOutputTokens = 40000

	// dynamicThinkingBudget lets the model choose how much to think.
	dynamicThinkingBudget = -1
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements report generation over the genai SDK.
type Client struct {
	models          contentGenerator
	model           string
	timeout         time.Duration
	maxOutputTokens int32
	pricing         report.Pricing
	logger          *slog.Logger
	tracer          trace.Tracer
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMaxOutputTokens(n int32) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxOutputTokens = n
		}
	}
}

// WithPricing sets the rates used for the cost log line.
func WithPricing(p report.Pricing) Option {
	return func(c *Client) {
		c.pricing = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Gemini API client for apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required: %w", report.ErrCredentials)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(gc.Models, opts...), nil
}

func newClient(models contentGenerator, opts ...Option) *Client {
	c := &Client{
		models:          models,
		model:           DefaultModel,
		timeout:         DefaultTimeout,
		maxOutputTokens: DefaultMaxOutputTokens,
		pricing:         report.DefaultPricing,
		logger:          slog.Default(),
		tracer:          otel.Tracer("lifepath/internal/report/gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt and returns the raw JSON answer with usage.
func (c *Client) Generate(ctx context.Context, prompt report.Prompt) (*report.Generation, error) {
	requestID := requestcontext.RequestID(ctx)
	ctx, span := c.tracer.Start(ctx, "gemini.GenerateContent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.system", "gemini"),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Int("gen_ai.request.max_tokens", int(c.maxOutputTokens)),
		),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)},
		c.config(prompt.System),
	)
	if err != nil {
		err = classify(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		c.logger.ErrorContext(ctx, "gemini generation failed",
			"request_id", requestID,
			"model", c.model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	gen, err := c.collect(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return nil, err
	}

	cost := gen.Usage.Cost(c.pricing)
	span.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", int(gen.Usage.PromptTokens)),
		attribute.Int("gen_ai.usage.output_tokens", int(gen.Usage.CandidateTokens)),
		attribute.Int("gen_ai.usage.thought_tokens", int(gen.Usage.ThoughtTokens)),
	)
	c.logger.InfoContext(ctx, "gemini generation completed",
		"request_id", requestID,
		"model", gen.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"thought_tokens", gen.Usage.ThoughtTokens,
		"output_tokens", gen.Usage.CandidateTokens,
		"input_tokens", gen.Usage.PromptTokens,
		"total_tokens", gen.Usage.TotalTokens,
		"cost", cost.Amount,
		"currency", cost.Currency,
	)
	for _, summary := range gen.ThoughtSummaries {
		c.logger.DebugContext(ctx, "gemini thought summary",
			"request_id", requestID,
			"summary", summary,
		)
	}
	return gen, nil
}

func (c *Client) config(system string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr[int32](dynamicThinkingBudget),
		},
		MaxOutputTokens:  c.maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ReportSchema(),
	}
}

// collect splits thought summaries from the answer text.
func (c *Client) collect(resp *genai.GenerateContentResponse) (*report.Generation, error) {
	gen := &report.Generation{Model: c.model}
	if resp == nil {
		return nil, report.ErrEmptyResponse
	}
	if resp.ModelVersion != "" {
		gen.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		gen.Usage = report.Usage{
			PromptTokens:    u.PromptTokenCount,
			CandidateTokens: u.CandidatesTokenCount,
			ThoughtTokens:   u.ThoughtsTokenCount,
			TotalTokens:     u.TotalTokenCount,
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, report.ErrEmptyResponse
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			gen.ThoughtSummaries = append(gen.ThoughtSummaries, part.Text)
			continue
		}
		answer.WriteString(part.Text)
	}
	if answer.Len() == 0 {
		return nil, report.ErrEmptyResponse
	}
	gen.Raw = []byte(answer.String())
	return gen, nil
}

// classify wraps SDK and transport errors with a report failure kind.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", report.ErrGenerationTimeout, err)
	}

	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", report.ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", report.ErrCredentials, err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %v", report.ErrGenerationTimeout, err)
		case http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %v", report.ErrNetwork, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", report.ErrGenerationTimeout, err)
		}
		return fmt.Errorf("%w: %v", report.ErrNetwork, err)
	}
	return err
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
