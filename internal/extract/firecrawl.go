package extract

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/pkg/firecrawl"
)

// FirecrawlExtractor asks Firecrawl to scrape a page and run LLM extraction
// against the directive's schema.
type FirecrawlExtractor struct {
	client    firecrawl.Client
	directive Directive
	timeout   time.Duration
}

// NewFirecrawlExtractor creates a FirecrawlExtractor. A positive timeout is
// sent as Firecrawl's per-page scrape timeout; zero leaves the API default.
func NewFirecrawlExtractor(client firecrawl.Client, d Directive, timeout time.Duration) *FirecrawlExtractor {
	return &FirecrawlExtractor{client: client, directive: d, timeout: timeout}
}

// Name implements Extractor.
func (f *FirecrawlExtractor) Name() string { return config.ProviderFirecrawl }

// Extract implements Extractor. It returns data.extract.content.
func (f *FirecrawlExtractor) Extract(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     url,
		Formats: []string{firecrawl.FormatExtract},
		Extract: &firecrawl.ExtractOptions{
			Prompt: f.directive.Prompt,
			Schema: f.directive.Schema,
		},
		Timeout: int(f.timeout.Milliseconds()),
	})
	if err != nil {
		return "", err
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Data.Metadata.Error
		}
		if msg == "" {
			return "", eris.New("firecrawl: scrape not successful")
		}
		return "", eris.Errorf("firecrawl: %s", msg)
	}

	// A missing or non-string field is a schema mismatch. Blank content is
	// still handed to the summarizer.
	raw, ok := resp.Data.Extract["content"]
	if !ok {
		return "", eris.New("firecrawl: extract result has no content field")
	}
	content, ok := raw.(string)
	if !ok {
		return "", eris.Errorf("firecrawl: extract content is %T, not a string", raw)
	}
	return content, nil
}
