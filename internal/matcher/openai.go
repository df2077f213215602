package matcher

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"orcafacil/internal"
)

var _ RemoteMatcher = (*OpenAIMatcher)(nil)

// CompletionsService is the slice of the chat completions client the matcher
// needs; tests swap in a fake.
type CompletionsService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Options struct {
	APIKey                 string
	BaseURL                string
	Model                  string
	MaxRetries             int
	Timeout                time.Duration
	RateLimitRPS           float64
	ConversionInstructions string
}

type OpenAIMatcher struct {
	completions CompletionsService
	model       openai.ChatModel
	limiter     *rate.Limiter
	system      string
}

func NewOpenAI(opts Options) *OpenAIMatcher {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(opts.Timeout))
	}
	client := openai.NewClient(clientOpts...)
	return NewOpenAIMatcher(client.Chat.Completions, opts)
}

// NewOpenAIMatcher builds a matcher on an existing completions service.
func NewOpenAIMatcher(completions CompletionsService, opts Options) *OpenAIMatcher {
	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	return &OpenAIMatcher{
		completions: completions,
		model:       openai.ChatModel(opts.Model),
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		system:      buildSystemPrompt(opts.ConversionInstructions),
	}
}

func (m *OpenAIMatcher) Match(ctx context.Context, catalog []internal.CatalogItem, lines []string) ([]Result, error) {
	if len(lines) == 0 {
		return []Result{}, nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, &RemoteMatchError{Op: "wait", Err: err}
	}

	started := time.Now()
	resp, err := m.completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(m.system),
			openai.UserMessage(buildUserPrompt(catalog, lines)),
		}),
		Model:       openai.F(m.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, &RemoteMatchError{Op: "request", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &RemoteMatchError{Op: "request", Err: errors.New("no choices returned")}
	}

	results, err := Validate([]byte(resp.Choices[0].Message.Content), len(catalog), len(lines))
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("model", string(m.model)).
		Int("lines", len(lines)).
		Int("catalog", len(catalog)).
		Dur("took", time.Since(started)).
		Msg("remote match done")
	return results, nil
}
