package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/internal/enrich"
	"github.com/sells-group/lead-enricher/internal/input"
	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/report"
	"github.com/sells-group/lead-enricher/internal/summarize"
)

// enrichFlags holds the enrich command's flag values.
type enrichFlags struct {
	input        string
	urls         []string
	tone         string
	format       string
	output       string
	extractKey   string
	firecrawlKey string
	llmKey       string
	extractor    string
	summarizer   string
	width        int
	quiet        bool
}

var enrichOpts enrichFlags

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Summarize a list of company websites",
	Long: `Extracts each homepage, summarizes it, prints a table to stderr and writes
the report file. Every URL yields exactly one row; failures appear as
"Error: <message>" in the Summary column.

Examples:
  # URLs from a text file, one per line
  lead-enricher enrich --input leads.txt --firecrawl-key fc-... --llm-key sk-ant-...

  # A CSV export with a Website column, salesy tone, Excel output
  lead-enricher enrich --input leads.csv --tone salesy --format xlsx

  # Ad-hoc URLs, keys from LEADS_FIRECRAWL_KEY / LEADS_ANTHROPIC_KEY
  lead-enricher enrich --url https://acme.com --url https://example.org`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runEnrich(ctx, cfg, enrichOpts, nil, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// runEnrich executes one enrichment run. A nil backends builds the providers
// selected in c.
func runEnrich(ctx context.Context, c *config.Config, f enrichFlags, backends enrich.Backends, stdout, stderr io.Writer) error {
	applyEnrichFlags(c, f)
	if err := c.Validate("enrich"); err != nil {
		return err
	}

	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}

	urls, err := collectURLs(f)
	if err != nil {
		return err
	}

	catalog, err := summarize.LoadCatalog(c.Summarize.TemplatesFile)
	if err != nil {
		return err
	}

	if backends == nil {
		backends = enrich.DefaultBackends(c)
	}

	var obs enrich.Observer
	if !f.quiet {
		obs = func(i int, u string, s model.State) {
			if s.Terminal() {
				_, _ = fmt.Fprintf(stderr, "[%d/%d] %s %s\n", i+1, len(urls), s, u)
			}
		}
	}

	rep, err := enrich.NewRunner(backends, catalog).Run(ctx, urls, enrich.Options{
		Directive: c.Summarize.Tone,
		Credentials: enrich.Credentials{
			ExtractorKey:  c.ExtractorKey(),
			SummarizerKey: c.SummarizerKey(),
		},
		Observer: obs,
	})
	if err != nil {
		return err
	}

	if err := report.RenderTable(stderr, rep, f.width); err != nil {
		return eris.Wrap(err, "enrich: render table")
	}

	out := f.output
	if out == "" {
		out = format.Filename()
	}
	if err := writeReport(out, format, rep, stdout); err != nil {
		return err
	}

	if out != "-" {
		_, _ = fmt.Fprintf(stderr, "wrote %s\n", out)
	}
	zap.L().Info("enrich: report written",
		zap.String("report_id", rep.ID),
		zap.String("output", out),
		zap.String("format", string(format)),
	)
	return nil
}

// applyEnrichFlags overlays command-line flags on the loaded configuration.
func applyEnrichFlags(c *config.Config, f enrichFlags) {
	if f.extractor != "" {
		c.Extract.Provider = f.extractor
	}
	if f.summarizer != "" {
		c.Summarize.Provider = f.summarizer
	}
	if f.tone != "" {
		c.Summarize.Tone = f.tone
	}

	key := strings.TrimSpace(f.extractKey)
	if key == "" {
		key = strings.TrimSpace(f.firecrawlKey)
	}
	if key != "" {
		switch c.Extract.Provider {
		case config.ProviderFirecrawl:
			c.Firecrawl.Key = key
		case config.ProviderJina:
			c.Jina.Key = key
		}
	}

	if llmKey := strings.TrimSpace(f.llmKey); llmKey != "" {
		switch c.Summarize.Provider {
		case config.ProviderAnthropic:
			c.Anthropic.Key = llmKey
		case config.ProviderGemini:
			c.Gemini.Key = llmKey
		}
	}
}

// collectURLs merges --input and --url values, dropping blanks.
func collectURLs(f enrichFlags) ([]string, error) {
	var urls []string
	if f.input != "" {
		fromFile, err := input.ReadFile(f.input)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	urls = append(urls, enrich.CleanURLs(f.urls)...)
	if len(urls) == 0 {
		return nil, enrich.ErrNoURLs
	}
	return urls, nil
}

// writeReport writes rep to path, or to stdout when path is "-".
func writeReport(path string, format report.Format, rep *model.Report, stdout io.Writer) error {
	if path == "-" {
		return report.Write(stdout, format, rep)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "enrich: create %s", path)
	}
	if err := report.Write(f, format, rep); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "enrich: close %s", path)
}

func init() {
	f := enrichCmd.Flags()
	f.StringVarP(&enrichOpts.input, "input", "i", "", "file of URLs: text (one per line), .csv/.tsv or .xlsx with a Website column; - for stdin")
	f.StringArrayVarP(&enrichOpts.urls, "url", "u", nil, "website URL (repeatable)")
	f.StringVarP(&enrichOpts.tone, "tone", "t", "", "tone or industry template: "+strings.Join(summarize.Builtin().Names(), ", "))
	f.StringVarP(&enrichOpts.format, "format", "f", "csv", "output format: csv, xlsx or json")
	f.StringVarP(&enrichOpts.output, "output", "o", "", "output path (default enriched_leads.<format>; - for stdout)")
	f.StringVar(&enrichOpts.firecrawlKey, "firecrawl-key", "", "content extraction API key")
	f.StringVar(&enrichOpts.extractKey, "extract-key", "", "content extraction API key (alias of --firecrawl-key)")
	f.StringVar(&enrichOpts.llmKey, "llm-key", "", "LLM API key")
	f.StringVar(&enrichOpts.extractor, "extractor", "", "extraction provider: firecrawl, jina or readability")
	f.StringVar(&enrichOpts.summarizer, "summarizer", "", "LLM provider: anthropic or gemini")
	f.IntVar(&enrichOpts.width, "width", report.DefaultTableWidth, "summary column width of the printed table")
	f.BoolVarP(&enrichOpts.quiet, "quiet", "q", false, "suppress per-URL progress lines")
	rootCmd.AddCommand(enrichCmd)
}
