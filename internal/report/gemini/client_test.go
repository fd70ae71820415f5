package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"lifepath/internal/report"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline time.Time

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	f.deadline, _ = ctx.Deadline()
	return f.resp, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func answer(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     1000,
			CandidatesTokenCount: 2000,
			ThoughtsTokenCount:   3000,
			TotalTokenCount:      6000,
		},
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	fake := &fakeModels{resp: answer(&genai.Part{Text: `[{"conclusion":"ok"}]`})}
	c := newClient(fake, WithLogger(quietLogger()), WithTimeout(time.Minute))

	before := time.Now()
	_, err := c.Generate(context.Background(), report.Prompt{System: "system text", User: "user text"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, fake.model)
	require.Len(t, fake.contents, 1)
	assert.Equal(t, "user text", fake.contents[0].Parts[0].Text)
	assert.Equal(t, "system text", fake.config.SystemInstruction.Parts[0].Text)

	require.NotNil(t, fake.config.ThinkingConfig)
	assert.True(t, fake.config.ThinkingConfig.IncludeThoughts)
	require.NotNil(t, fake.config.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(-1), *fake.config.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(DefaultMaxOutputTokens), fake.config.MaxOutputTokens)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	assert.Equal(t, genai.TypeArray, fake.config.ResponseSchema.Type)

	assert.WithinDuration(t, before.Add(time.Minute), fake.deadline, 5*time.Second)
}

func TestGenerate_SeparatesThoughts(t *testing.T) {
	fake := &fakeModels{resp: answer(
		&genai.Part{Text: "considering life path 22", Thought: true},
		&genai.Part{Text: `[{"conclusion":`},
		&genai.Part{Text: ""},
		&genai.Part{Text: `"ok"}]`},
	)}
	c := newClient(fake, WithLogger(quietLogger()), WithModel("gemini-2.5-flash"))

	gen, err := c.Generate(context.Background(), report.Prompt{})
	require.NoError(t, err)

	assert.Equal(t, `[{"conclusion":"ok"}]`, string(gen.Raw))
	assert.Equal(t, []string{"considering life path 22"}, gen.ThoughtSummaries)
	assert.Equal(t, "gemini-2.5-flash", gen.Model)
	assert.Equal(t, report.Usage{PromptTokens: 1000, CandidateTokens: 2000, ThoughtTokens: 3000, TotalTokens: 6000}, gen.Usage)
}

func TestGenerate_EmptyResponses(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"only thoughts": answer(&genai.Part{Text: "hmm", Thought: true}),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			c := newClient(&fakeModels{resp: resp}, WithLogger(quietLogger()))
			_, err := c.Generate(context.Background(), report.Prompt{})
			assert.ErrorIs(t, err, report.ErrEmptyResponse)
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type refusedErr struct{}

func (refusedErr) Error() string   { return "connection refused" }
func (refusedErr) Timeout() bool   { return false }
func (refusedErr) Temporary() bool { return false }

func TestGenerate_ClassifiesErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", context.DeadlineExceeded, report.ErrGenerationTimeout},
		{"quota", genai.APIError{Code: 429, Message: "Resource has been exhausted (e.g. check quota)."}, report.ErrRateLimited},
		{"bad key", genai.APIError{Code: 403, Message: "API key not valid"}, report.ErrCredentials},
		{"overloaded", genai.APIError{Code: 503, Message: "The model is overloaded"}, report.ErrNetwork},
		{"gateway timeout", genai.APIError{Code: 504, Message: "Deadline"}, report.ErrGenerationTimeout},
		{"net timeout", timeoutErr{}, report.ErrGenerationTimeout},
		{"net refused", refusedErr{}, report.ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(&fakeModels{err: tc.err}, WithLogger(quietLogger()))
			_, err := c.Generate(context.Background(), report.Prompt{})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("unknown errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		c := newClient(&fakeModels{err: boom}, WithLogger(quietLogger()))
		_, err := c.Generate(context.Background(), report.Prompt{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.ErrorIs(t, err, report.ErrCredentials)
}
