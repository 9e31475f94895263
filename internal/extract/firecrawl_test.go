package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-enricher/pkg/firecrawl"
)

func newFirecrawlServer(t *testing.T, status int, body string, check func(*testing.T, map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(t, req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFirecrawlExtractor_Extract(t *testing.T) {
	srv := newFirecrawlServer(t, http.StatusOK,
		`{"success":true,"data":{"extract":{"content":"Acme builds CRM software for dentists."},"metadata":{"statusCode":200}}}`,
		func(t *testing.T, req map[string]any) {
			assert.Equal(t, "https://acme.com", req["url"])
			assert.Equal(t, []any{"extract"}, req["formats"])

			ext, ok := req["extract"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, DefaultPrompt, ext["prompt"])
			schema, ok := ext["schema"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, []any{"content"}, schema["required"])
			assert.Equal(t, float64(15000), req["timeout"])
		})

	ex := NewFirecrawlExtractor(firecrawl.NewClient("fc-key", firecrawl.WithBaseURL(srv.URL)), DefaultDirective(), 15*time.Second)
	got, err := ex.Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme builds CRM software for dentists.", got)
}

func TestFirecrawlExtractor_BlankContentIsNotAFailure(t *testing.T) {
	srv := newFirecrawlServer(t, http.StatusOK, `{"success":true,"data":{"extract":{"content":""}}}`,
		func(t *testing.T, req map[string]any) {
			_, ok := req["timeout"]
			assert.False(t, ok, "zero timeout is omitted")
		})

	ex := NewFirecrawlExtractor(firecrawl.NewClient("fc-key", firecrawl.WithBaseURL(srv.URL)), DefaultDirective(), 0)
	got, err := ex.Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFirecrawlExtractor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "success false with error",
			status:  http.StatusOK,
			body:    `{"success":false,"error":"page timed out"}`,
			wantMsg: "firecrawl: page timed out",
		},
		{
			name:    "success false with metadata error",
			status:  http.StatusOK,
			body:    `{"success":false,"data":{"metadata":{"error":"dns failure"}}}`,
			wantMsg: "firecrawl: dns failure",
		},
		{
			name:    "success false bare",
			status:  http.StatusOK,
			body:    `{"success":false}`,
			wantMsg: "firecrawl: scrape not successful",
		},
		{
			name:    "schema mismatch",
			status:  http.StatusOK,
			body:    `{"success":true,"data":{"extract":{"text":"wrong field"}}}`,
			wantMsg: "firecrawl: extract result has no content field",
		},
		{
			name:    "content not a string",
			status:  http.StatusOK,
			body:    `{"success":true,"data":{"extract":{"content":42}}}`,
			wantMsg: "firecrawl: extract content is float64, not a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFirecrawlServer(t, tt.status, tt.body, nil)
			ex := NewFirecrawlExtractor(firecrawl.NewClient("fc-key", firecrawl.WithBaseURL(srv.URL)), DefaultDirective(), 0)

			_, err := ex.Extract(context.Background(), "https://acme.com")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestFirecrawlExtractor_HTTPError(t *testing.T) {
	srv := newFirecrawlServer(t, http.StatusPaymentRequired, `{"error":"insufficient credits"}`, nil)
	ex := NewFirecrawlExtractor(firecrawl.NewClient("fc-key", firecrawl.WithBaseURL(srv.URL)), DefaultDirective(), 0)

	_, err := ex.Extract(context.Background(), "https://acme.com")
	require.Error(t, err)

	var apiErr *firecrawl.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "insufficient credits")
}
