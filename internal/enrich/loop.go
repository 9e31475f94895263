// Package enrich runs the per-URL extract → summarize pipeline and assembles
// the lead report.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/summarize"
)

// Extractor returns the main content of a page.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Summarizer turns extracted content into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string, d summarize.Directive) (string, error)
}

// Observer is notified each time a URL changes state. It must not block.
type Observer func(index int, url string, state model.State)

// Loop processes urls in order and returns exactly one record per url, in
// the same order. A failure on one url never stops the loop. The summarizer
// is not called for a url whose extraction failed.
func Loop(ctx context.Context, urls []string, ex Extractor, sm Summarizer, d summarize.Directive, obs Observer) []model.Record {
	records := make([]model.Record, 0, len(urls))
	for i, u := range urls {
		records = append(records, model.Record{
			Website: u,
			Outcome: process(ctx, i, u, ex, sm, d, obs),
		})
	}
	return records
}

func process(ctx context.Context, i int, u string, ex Extractor, sm Summarizer, d summarize.Directive, obs Observer) model.Outcome {
	log := zap.L().With(zap.Int("index", i), zap.String("url", u))
	state := model.StatePending
	move := func(next model.State) {
		if !state.Next(next) {
			log.Warn("enrich: illegal transition", zap.String("from", string(state)), zap.String("to", string(next)))
		}
		state = next
		log.Debug("enrich: state", zap.String("state", string(next)))
		if obs != nil {
			obs(i, u, next)
		}
	}

	move(model.StateExtracting)
	if err := ctx.Err(); err != nil {
		move(model.StateExtractFailed)
		return model.Failed(model.StateExtractFailed, err)
	}

	start := time.Now()
	content, err := ex.Extract(ctx, u)
	if err != nil {
		log.Warn("enrich: extraction failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		move(model.StateExtractFailed)
		return model.Failed(model.StateExtractFailed, err)
	}
	move(model.StateExtracted)

	move(model.StateSummarizing)
	summary, err := sm.Summarize(ctx, content, d)
	if err != nil {
		log.Warn("enrich: summarization failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		move(model.StateSummarizeFailed)
		return model.Failed(model.StateSummarizeFailed, err)
	}
	move(model.StateDone)

	log.Info("enrich: url done", zap.Duration("elapsed", time.Since(start)))
	return model.Succeeded(summary)
}
