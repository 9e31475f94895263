package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/pkg/jina"
)

// JinaExtractor reads a page through the Jina AI Reader.
type JinaExtractor struct {
	client jina.Client
}

// NewJinaExtractor creates a JinaExtractor.
func NewJinaExtractor(client jina.Client) *JinaExtractor {
	return &JinaExtractor{client: client}
}

// Name implements Extractor.
func (j *JinaExtractor) Name() string { return config.ProviderJina }

// Extract implements Extractor.
func (j *JinaExtractor) Extract(ctx context.Context, url string) (string, error) {
	resp, err := j.client.Read(ctx, url)
	if err != nil {
		return "", err
	}

	if resp.Code != 0 && resp.Code != 200 {
		return "", eris.Errorf("jina: reader returned code %d", resp.Code)
	}

	return strings.TrimSpace(resp.Data.Content), nil
}
