// Package google wraps the Gemini generateContent API behind a small interface.
package google

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// DefaultModel is the model the lead summaries were tuned against.
const DefaultModel = "gemini-2.0-flash"

// Client performs Gemini API operations.
type Client interface {
	GenerateContent(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest is our own request type for GenerateContent.
type GenerateRequest struct {
	Contents          []Content
	SystemInstruction *Content
	GenerationConfig  *GenerationConfig
}

// Content is a single turn of a conversation.
type Content struct {
	Role  string
	Parts []Part
}

// Part holds one piece of content.
type Part struct {
	Text string
}

// GenerationConfig tunes sampling.
type GenerationConfig struct {
	Temperature     *float64
	MaxOutputTokens int
}

// TextPrompt builds a single-turn user request.
func TextPrompt(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}
}

// GenerateResponse is our own response type from GenerateContent.
type GenerateResponse struct {
	Candidates    []Candidate
	BlockReason   string
	UsageMetadata UsageMetadata
	ModelVersion  string
}

// Candidate is one generated response.
type Candidate struct {
	Content      Content
	FinishReason string
}

// UsageMetadata tracks token consumption.
type UsageMetadata struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
}

// Text returns the trimmed text of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// Option configures the SDK client.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) {
		if url != "" {
			c.HTTPOptions.BaseURL = url
		}
	}
}

// sdkClient implements Client using the official genai SDK.
type sdkClient struct {
	client *genai.Client
}

// NewClient creates a Gemini API client backed by the genai SDK.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, o := range opts {
		o(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: client}, nil
}

func (c *sdkClient) GenerateContent(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error) {
	if model == "" {
		model = DefaultModel
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, toSDKContents(req.Contents), toSDKConfig(req))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	out := fromSDKResponse(resp)
	if out.BlockReason != "" {
		return nil, eris.Errorf("gemini: prompt blocked: %s", out.BlockReason)
	}
	return out, nil
}

// --- SDK type conversion helpers ---

func toSDKContent(c Content) *genai.Content {
	parts := make([]*genai.Part, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = &genai.Part{Text: p.Text}
	}
	return &genai.Content{Role: c.Role, Parts: parts}
}

func toSDKContents(contents []Content) []*genai.Content {
	out := make([]*genai.Content, len(contents))
	for i, c := range contents {
		out[i] = toSDKContent(c)
	}
	return out
}

func toSDKConfig(req GenerateRequest) *genai.GenerateContentConfig {
	if req.SystemInstruction == nil && req.GenerationConfig == nil {
		return nil
	}

	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != nil {
		cfg.SystemInstruction = toSDKContent(*req.SystemInstruction)
	}
	if gc := req.GenerationConfig; gc != nil {
		if gc.Temperature != nil {
			cfg.Temperature = genai.Ptr(float32(*gc.Temperature))
		}
		cfg.MaxOutputTokens = int32(gc.MaxOutputTokens)
	}
	return cfg
}

func fromSDKResponse(resp *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{ModelVersion: resp.ModelVersion}

	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		c := Candidate{FinishReason: string(cand.FinishReason)}
		if cand.Content != nil {
			c.Content.Role = cand.Content.Role
			for _, p := range cand.Content.Parts {
				if p != nil {
					c.Content.Parts = append(c.Content.Parts, Part{Text: p.Text})
				}
			}
		}
		out.Candidates = append(out.Candidates, c)
	}

	if resp.PromptFeedback != nil {
		out.BlockReason = string(resp.PromptFeedback.BlockReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.UsageMetadata = UsageMetadata{
			PromptTokenCount:     int(u.PromptTokenCount),
			CandidatesTokenCount: int(u.CandidatesTokenCount),
			TotalTokenCount:      int(u.TotalTokenCount),
		}
	}
	return out
}
