package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-enricher/pkg/jina"
)

func TestJinaExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
	}{
		{
			name:   "content",
			status: http.StatusOK,
			body:   `{"code":200,"data":{"title":"Acme","content":"  # Acme\n\nPayroll for startups.  "}}`,
			want:   "# Acme\n\nPayroll for startups.",
		},
		{
			name:    "non-200 code in body",
			status:  http.StatusOK,
			body:    `{"code":422,"data":{"content":"x"}}`,
			wantErr: "jina: reader returned code 422",
		},
		{
			name:   "blank content passes through",
			status: http.StatusOK,
			body:   `{"code":200,"data":{"content":"   "}}`,
			want:   "",
		},
		{
			name:    "http error",
			status:  http.StatusUnauthorized,
			body:    `bad key`,
			wantErr: "jina: HTTP 401: bad key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/https://acme.com", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			ex := NewJinaExtractor(jina.NewClient("jina-key", jina.WithBaseURL(srv.URL)))
			got, err := ex.Extract(context.Background(), "https://acme.com")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
