package digest

import (
	"context"
)

// NoDataDigest is the digest body sent when no posts were collected.
const NoDataDigest = "No relevant Hacker News posts found today."

// HitRecord is one normalized search hit, tagged with the keyword it was found for.
type HitRecord struct {
	Date         string
	Tag          string
	Title        string
	Link         string
	Score        int
	CommentCount int
}

// TagGroup holds the titles collected for one tag, in collection order.
type TagGroup struct {
	Tag    string
	Titles []string
}

// GroupedTitles is an ordered tag -> titles mapping. Tags appear in the
// order they were first seen.
type GroupedTitles []TagGroup

// TagSummary is the text produced for one tag: either a generated summary
// or an error placeholder.
type TagSummary struct {
	Tag  string
	Text string
	Err  error
}

// SearchHit is a search result as returned by the search collaborator.
type SearchHit struct {
	ObjectID      string
	Title         string
	URL           string
	Points        int
	NumComments   int
	CreatedAt     string
	CreatedAtUnix int64
}

// Searcher runs one keyword search for one result page.
type Searcher interface {
	Search(ctx context.Context, query string, page int) ([]SearchHit, error)
}

// SummaryRequest is the input handed to the summarization collaborator.
type SummaryRequest struct {
	Text          string
	MinLength     int
	MaxLength     int
	Deterministic bool
}

// Summarizer turns a prompt into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// SummarizerFunc adapts a plain function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, req SummaryRequest) (string, error)

// Summarize calls f(ctx, req).
func (f SummarizerFunc) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	return f(ctx, req)
}

// Notifier delivers a rendered digest.
type Notifier interface {
	Notify(ctx context.Context, digest string) error
}
