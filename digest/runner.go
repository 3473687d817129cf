package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saas-trend-digest/metrics"
)

// Runner orchestrates one digest run: collect, group, summarize, format, notify.
type Runner struct {
	searcher        Searcher
	summarizer      Summarizer
	notifier        Notifier
	keywords        []string
	pagesPerKeyword int
	location        *time.Location
	metrics         *metrics.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithKeywords sets the product keywords to search for.
func WithKeywords(keywords []string) Option {
	return func(r *Runner) {
		r.keywords = keywords
	}
}

// WithPagesPerKeyword sets how many result pages are fetched per keyword.
func WithPagesPerKeyword(pages int) Option {
	return func(r *Runner) {
		r.pagesPerKeyword = pages
	}
}

// WithTimezone sets the time zone used for record dates.
func WithTimezone(loc *time.Location) Option {
	return func(r *Runner) {
		r.location = loc
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a new digest runner.
func NewRunner(searcher Searcher, summarizer Summarizer, notifier Notifier, opts ...Option) *Runner {
	r := &Runner{
		searcher:        searcher,
		summarizer:      summarizer,
		notifier:        notifier,
		pagesPerKeyword: 2,
		location:        time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build runs the pipeline up to the formatted digest without delivering it.
func (r *Runner) Build(ctx context.Context) string {
	collector := NewCollector(r.searcher, WithLocation(r.location), WithCollectorMetrics(r.metrics))
	records := collector.Collect(ctx, r.keywords, r.pagesPerKeyword)
	slog.Info("collected hits", "keywords", len(r.keywords), "records", len(records))

	groups := GroupByTag(records)
	slog.Info("grouped hits", "tags", len(groups))

	summaries := Summarize(ctx, groups, r.summarizer)
	for _, s := range summaries {
		if s.Err != nil {
			r.metrics.IncSummary(metrics.ResultFailure)
		} else {
			r.metrics.IncSummary(metrics.ResultSuccess)
		}
	}

	return Format(summaries)
}

// Run builds the digest and hands it to the notifier. Only delivery
// failures are returned.
func (r *Runner) Run(ctx context.Context) (string, error) {
	start := time.Now()
	slog.Info("starting digest run", "keywords", len(r.keywords), "pages_per_keyword", r.pagesPerKeyword)

	body := r.Build(ctx)

	if err := r.notifier.Notify(ctx, body); err != nil {
		r.metrics.ObserveRun(time.Since(start), false)
		return body, fmt.Errorf("deliver digest: %w", err)
	}

	r.metrics.ObserveRun(time.Since(start), true)
	slog.Info("digest run complete", "duration", time.Since(start), "bytes", len(body))
	return body, nil
}
