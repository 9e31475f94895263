package extract

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/lead-enricher/internal/config"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; LeadEnricher/1.0)"
	maxBodyBytes = 2 << 20
	minTextChars = 40
)

// ReadabilityExtractor fetches the page itself and keeps the main article
// text. It needs no API key.
type ReadabilityExtractor struct {
	client *http.Client
}

// NewReadabilityExtractor creates a ReadabilityExtractor. A zero timeout
// falls back to 30s.
func NewReadabilityExtractor(timeout time.Duration) *ReadabilityExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReadabilityExtractor{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Name implements Extractor.
func (r *ReadabilityExtractor) Name() string { return config.ProviderReadability }

// Extract implements Extractor.
func (r *ReadabilityExtractor) Extract(ctx context.Context, targetURL string) (string, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return "", eris.Wrap(err, "readability: parse url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "readability: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "readability: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "readability: read body")
	}

	if blocked, bt := DetectBlock(resp, raw); blocked {
		return "", eris.Errorf("readability: blocked (%s)", bt)
	}
	if resp.StatusCode >= 400 {
		return "", eris.Errorf("readability: status %d", resp.StatusCode)
	}

	body, err := decodeBody(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	text := articleText(body, u)
	if len(text) < minTextChars {
		zap.L().Debug("readability: article too short, falling back to page text",
			zap.String("url", targetURL),
			zap.Int("chars", len(text)),
		)
		text, err = pageText(body)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

// decodeBody converts the body to UTF-8 using the charset from the
// Content-Type header. Unknown charsets are passed through unchanged.
func decodeBody(raw []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return raw, nil
	}
	cs := strings.ToLower(params["charset"])
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return raw, nil
	}

	enc, err := htmlindex.Get(cs)
	if err != nil {
		return raw, nil
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, eris.Wrapf(err, "readability: decode charset %q", cs)
	}
	return out, nil
}

// articleText runs readability and flattens its cleaned HTML to text.
func articleText(body []byte, u *url.URL) string {
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return ""
	}
	text := blockText(doc.Selection)
	if title := normalizeSpace(article.Title); title != "" && text != "" && !strings.HasPrefix(text, title) {
		text = title + "\n\n" + text
	}
	return text
}

// pageText strips boilerplate elements and returns the remaining body text.
func pageText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "readability: parse html")
	}
	doc.Find("script, style, noscript, nav, footer, header, svg, iframe").Remove()
	return blockText(doc.Find("body")), nil
}

const blockSelectors = "h1, h2, h3, h4, p, li, blockquote, td"

// blockText joins the text of content-bearing elements, one per line. When
// none exist it falls back to the selection's whole text.
func blockText(sel *goquery.Selection) string {
	var lines []string
	sel.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are picked up by their own match.
		if s.Find(blockSelectors).Length() > 0 {
			return
		}
		if line := normalizeSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return normalizeSpace(sel.Text())
	}
	return strings.Join(lines, "\n")
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
