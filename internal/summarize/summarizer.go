package summarize

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/pkg/anthropic"
	"github.com/sells-group/lead-enricher/pkg/google"
)

// Sentinel errors returned by New.
var (
	ErrUnknownProvider = eris.New("summarize: unknown provider")
	ErrMissingKey      = eris.New("summarize: missing API key")
)

// ErrEmptySummary is returned when the backend answers with no text.
var ErrEmptySummary = eris.New("summarize: empty response")

// Sampling holds the generation settings passed to a backend. A nil
// Temperature leaves the provider default.
type Sampling struct {
	MaxTokens   int64
	Temperature *float64
}

// Summarizer produces a summary of extracted text under a directive.
type Summarizer interface {
	Summarize(ctx context.Context, text string, d Directive) (string, error)
	Name() string
}

// New builds the summarizer for provider with the given key.
func New(provider, key string, cfg *config.Config) (Summarizer, error) {
	if strings.TrimSpace(key) == "" {
		switch provider {
		case config.ProviderAnthropic, config.ProviderGemini:
			return nil, eris.Wrapf(ErrMissingKey, "provider %s", provider)
		}
	}

	switch provider {
	case config.ProviderAnthropic:
		var opts []option.RequestOption
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		return NewAnthropicSummarizer(anthropic.NewClient(key, opts...), cfg.Anthropic.Model, Sampling{
			MaxTokens:   cfg.Anthropic.MaxTokens,
			Temperature: cfg.Anthropic.Temperature,
		}), nil
	case config.ProviderGemini:
		client, err := google.NewClient(context.Background(), key, google.WithBaseURL(cfg.Gemini.BaseURL))
		if err != nil {
			return nil, err
		}
		return NewGeminiSummarizer(client, cfg.Gemini.Model, Sampling{
			MaxTokens:   cfg.Gemini.MaxOutputTokens,
			Temperature: cfg.Gemini.Temperature,
		}), nil
	default:
		return nil, eris.Wrapf(ErrUnknownProvider, "provider %q", provider)
	}
}

// AnthropicSummarizer summarizes with the Anthropic Messages API.
type AnthropicSummarizer struct {
	client   anthropic.Client
	model    string
	sampling Sampling
}

// NewAnthropicSummarizer creates an AnthropicSummarizer. MaxTokens defaults
// to 1024.
func NewAnthropicSummarizer(client anthropic.Client, model string, sampling Sampling) *AnthropicSummarizer {
	if sampling.MaxTokens <= 0 {
		sampling.MaxTokens = 1024
	}
	return &AnthropicSummarizer{client: client, model: model, sampling: sampling}
}

// Name implements Summarizer.
func (s *AnthropicSummarizer) Name() string { return config.ProviderAnthropic }

// Summarize implements Summarizer.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, text string, d Directive) (string, error) {
	prompt, err := Render(d, text)
	if err != nil {
		return "", err
	}

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.model,
		MaxTokens:   s.sampling.MaxTokens,
		System:      []anthropic.SystemBlock{{Text: d.Instruction()}},
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: s.sampling.Temperature,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(s.model, "summarize")

	out := resp.Text()
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}

// GeminiSummarizer summarizes with the Gemini generateContent API.
type GeminiSummarizer struct {
	client   google.Client
	model    string
	sampling Sampling
}

// NewGeminiSummarizer creates a GeminiSummarizer. A zero MaxTokens leaves
// the model's output limit.
func NewGeminiSummarizer(client google.Client, model string, sampling Sampling) *GeminiSummarizer {
	if model == "" {
		model = google.DefaultModel
	}
	return &GeminiSummarizer{client: client, model: model, sampling: sampling}
}

// Name implements Summarizer.
func (s *GeminiSummarizer) Name() string { return config.ProviderGemini }

// Summarize implements Summarizer.
func (s *GeminiSummarizer) Summarize(ctx context.Context, text string, d Directive) (string, error) {
	prompt, err := Render(d, text)
	if err != nil {
		return "", err
	}

	resp, err := s.client.GenerateContent(ctx, s.model, s.request(prompt, d))
	if err != nil {
		return "", err
	}
	zap.L().Debug("gemini usage",
		zap.String("model", s.model),
		zap.String("phase", "summarize"),
		zap.Int("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
		zap.Int("output_tokens", resp.UsageMetadata.CandidatesTokenCount),
	)

	out := resp.Text()
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}

func (s *GeminiSummarizer) request(prompt string, d Directive) google.GenerateRequest {
	req := google.TextPrompt(prompt)
	req.SystemInstruction = &google.Content{Parts: []google.Part{{Text: d.Instruction()}}}
	if s.sampling.MaxTokens > 0 || s.sampling.Temperature != nil {
		req.GenerationConfig = &google.GenerationConfig{
			Temperature:     s.sampling.Temperature,
			MaxOutputTokens: int(s.sampling.MaxTokens),
		}
	}
	return req
}
