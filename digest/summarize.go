package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	maxPromptTitles = 5
	maxPromptChars  = 2048

	summaryMinLength = 60
	summaryMaxLength = 200
)

// Summarize produces one TagSummary per group, in group order. A failing
// summarizer call yields a placeholder for that tag only.
func Summarize(ctx context.Context, groups GroupedTitles, s Summarizer) []TagSummary {
	if len(groups) == 0 {
		return nil
	}

	summaries := make([]TagSummary, 0, len(groups))
	for _, g := range groups {
		req := SummaryRequest{
			Text:          BuildPrompt(g.Tag, g.Titles),
			MinLength:     summaryMinLength,
			MaxLength:     summaryMaxLength,
			Deterministic: true,
		}

		text, err := s.Summarize(ctx, req)
		if err != nil {
			slog.Warn("summarization failed", "tag", g.Tag, "error", err)
			summaries = append(summaries, TagSummary{
				Tag:  g.Tag,
				Text: fmt.Sprintf("[Error summarizing %s: %v]", g.Tag, err),
				Err:  err,
			})
			continue
		}

		summaries = append(summaries, TagSummary{Tag: g.Tag, Text: text})
	}
	return summaries
}

// BuildPrompt assembles the summarization input for a tag from at most its
// first five titles, hard-cut to 2048 characters.
func BuildPrompt(tag string, titles []string) string {
	if len(titles) > maxPromptTitles {
		titles = titles[:maxPromptTitles]
	}

	lines := make([]string, len(titles))
	for i, t := range titles {
		lines[i] = "- " + t
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The following Hacker News posts today mention %s:\n", tag)
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\nWrite a paragraph summarizing the above.")

	return truncateChars(sb.String(), maxPromptChars)
}

// truncateChars cuts s to its first n characters (code points).
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
