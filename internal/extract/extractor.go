// Package extract pulls the main textual content of a company homepage
// through one of several content-extraction backends.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/pkg/firecrawl"
	"github.com/sells-group/lead-enricher/pkg/jina"
)

// Sentinel errors returned by New.
var (
	ErrUnknownProvider = eris.New("extract: unknown provider")
	ErrMissingKey      = eris.New("extract: missing API key")
)

// Extractor returns the main content of a page as plain text.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
	Name() string
}

// Directive tells an LLM-backed extractor what to pull from the page.
type Directive struct {
	Prompt string
	Schema map[string]any
}

// DefaultPrompt is the instruction sent with every extraction request.
const DefaultPrompt = "Extract the homepage content of this SaaS company."

// DefaultDirective returns the homepage-content directive with a schema
// requiring a single string field named content.
func DefaultDirective() Directive {
	return Directive{
		Prompt: DefaultPrompt,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"content"},
		},
	}
}

// New builds the extractor for provider with the given key.
func New(provider, key string, cfg *config.Config) (Extractor, error) {
	keyed := provider == config.ProviderFirecrawl || provider == config.ProviderJina
	if keyed && strings.TrimSpace(key) == "" {
		return nil, eris.Wrapf(ErrMissingKey, "provider %s", provider)
	}

	timeout := time.Duration(cfg.Extract.TimeoutSecs) * time.Second

	switch provider {
	case config.ProviderFirecrawl:
		d := DefaultDirective()
		if cfg.Extract.Prompt != "" {
			d.Prompt = cfg.Extract.Prompt
		}
		client := firecrawl.NewClient(key,
			firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL),
			firecrawl.WithTimeout(time.Duration(cfg.Firecrawl.TimeoutSecs)*time.Second),
		)
		return NewFirecrawlExtractor(client, d, timeout), nil
	case config.ProviderJina:
		return NewJinaExtractor(jina.NewClient(key,
			jina.WithBaseURL(cfg.Jina.BaseURL),
			jina.WithTimeout(timeout),
		)), nil
	case config.ProviderReadability:
		return NewReadabilityExtractor(timeout), nil
	default:
		return nil, eris.Wrapf(ErrUnknownProvider, "provider %q", provider)
	}
}
