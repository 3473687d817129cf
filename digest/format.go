package digest

import (
	"strings"
)

const tagMarker = "🔹"

// Format renders the summaries into the digest body, or NoDataDigest when
// there is nothing to report.
func Format(summaries []TagSummary) string {
	if len(summaries) == 0 {
		return NoDataDigest
	}

	blocks := make([]string, len(summaries))
	for i, s := range summaries {
		blocks[i] = tagMarker + " " + s.Tag + ":\n" + s.Text + "\n"
	}
	return strings.Join(blocks, "\n")
}
