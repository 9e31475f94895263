package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/internal/extract"
	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/summarize"
)

// Sentinel errors returned by Runner.Run before any URL is processed.
var (
	ErrNoURLs             = eris.New("enrich: no URLs provided")
	ErrMissingCredentials = eris.New("enrich: missing API credentials")
)

// Credentials carries the API keys for one run.
type Credentials struct {
	ExtractorKey  string
	SummarizerKey string
}

// Options configures one run.
type Options struct {
	Directive   string
	Credentials Credentials
	Observer    Observer
}

// Backends builds the extractor and summarizer for one run.
type Backends func(Credentials) (Extractor, Summarizer, error)

// DefaultBackends builds the providers selected in cfg. A missing key maps
// to ErrMissingCredentials.
func DefaultBackends(cfg *config.Config) Backends {
	return func(c Credentials) (Extractor, Summarizer, error) {
		ex, err := extract.New(cfg.Extract.Provider, c.ExtractorKey, cfg)
		if err != nil {
			if errors.Is(err, extract.ErrMissingKey) {
				return nil, nil, eris.Wrapf(ErrMissingCredentials, "%s key", cfg.Extract.Provider)
			}
			return nil, nil, err
		}

		sm, err := summarize.New(cfg.Summarize.Provider, c.SummarizerKey, cfg)
		if err != nil {
			if errors.Is(err, summarize.ErrMissingKey) {
				return nil, nil, eris.Wrapf(ErrMissingCredentials, "%s key", cfg.Summarize.Provider)
			}
			return nil, nil, err
		}
		return ex, sm, nil
	}
}

// Runner validates a request, builds backends and runs the loop.
type Runner struct {
	backends Backends
	catalog  *summarize.Catalog
}

// NewRunner creates a Runner. A nil catalog uses the built-in directives.
func NewRunner(backends Backends, catalog *summarize.Catalog) *Runner {
	if catalog == nil {
		catalog = summarize.Builtin()
	}
	return &Runner{backends: backends, catalog: catalog}
}

// Catalog returns the directives this runner accepts.
func (r *Runner) Catalog() *summarize.Catalog { return r.catalog }

// Run enriches urls and returns the report. No report is produced when
// there are no URLs, the directive is unknown, or credentials are missing.
func (r *Runner) Run(ctx context.Context, urls []string, opts Options) (*model.Report, error) {
	urls = CleanURLs(urls)
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	d, err := r.catalog.Get(opts.Directive)
	if err != nil {
		return nil, err
	}

	ex, sm, err := r.backends(opts.Credentials)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("directive", d.Name), zap.Int("urls", len(urls)))
	log.Info("enrich: run started")
	start := time.Now()

	report := model.NewReport(d.Name, Loop(ctx, urls, ex, sm, d, opts.Observer))

	log.Info("enrich: run finished",
		zap.String("report_id", report.ID),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}
