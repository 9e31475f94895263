package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-enricher/internal/summarize"
)

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// --- Summarizer Mock ---

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string, d summarize.Directive) (string, error) {
	args := m.Called(ctx, text, d)
	return args.String(0), args.Error(1)
}
