package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saas-trend-digest/metrics"
)

const itemURLTemplate = "https://news.ycombinator.com/item?id=%s"

// Collector fetches search hits for a keyword list and normalizes them.
type Collector struct {
	searcher Searcher
	location *time.Location
	metrics  *metrics.Metrics
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLocation sets the time zone used to derive record dates.
func WithLocation(loc *time.Location) CollectorOption {
	return func(c *Collector) {
		c.location = loc
	}
}

// WithCollectorMetrics sets the metrics sink for page and hit counters.
func WithCollectorMetrics(m *metrics.Metrics) CollectorOption {
	return func(c *Collector) {
		c.metrics = m
	}
}

// NewCollector creates a Collector backed by searcher.
func NewCollector(searcher Searcher, opts ...CollectorOption) *Collector {
	c := &Collector{
		searcher: searcher,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect issues one search per (keyword, page) pair and returns the
// normalized records in keyword, page, response order. Pages that fail are
// skipped.
func (c *Collector) Collect(ctx context.Context, keywords []string, pagesPerKeyword int) []HitRecord {
	if pagesPerKeyword < 1 {
		pagesPerKeyword = 1
	}

	var records []HitRecord
	for _, keyword := range keywords {
		for page := 0; page < pagesPerKeyword; page++ {
			hits, err := c.searcher.Search(ctx, keyword, page)
			if err != nil {
				slog.Warn("search page skipped", "keyword", keyword, "page", page, "error", err)
				c.metrics.IncSearchPage(metrics.ResultFailure)
				continue
			}
			c.metrics.IncSearchPage(metrics.ResultSuccess)

			for _, hit := range hits {
				records = append(records, c.normalize(keyword, hit))
			}
			c.metrics.AddHits(len(hits))
			slog.Debug("search page collected", "keyword", keyword, "page", page, "hits", len(hits))
		}
	}
	return records
}

func (c *Collector) normalize(keyword string, hit SearchHit) HitRecord {
	link := hit.URL
	if link == "" {
		link = fmt.Sprintf(itemURLTemplate, hit.ObjectID)
	}

	return HitRecord{
		Date:         c.hitDate(hit),
		Tag:          keyword,
		Title:        hit.Title,
		Link:         link,
		Score:        max(hit.Points, 0),
		CommentCount: max(hit.NumComments, 0),
	}
}

func (c *Collector) hitDate(hit SearchHit) string {
	if hit.CreatedAtUnix != 0 {
		return time.Unix(hit.CreatedAtUnix, 0).In(c.location).Format(time.DateOnly)
	}
	if t, err := time.Parse(time.RFC3339, hit.CreatedAt); err == nil {
		return t.In(c.location).Format(time.DateOnly)
	}
	return ""
}
