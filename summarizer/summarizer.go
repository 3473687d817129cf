package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Supported providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
)

const defaultTimeout = 60 * time.Second

// Request is one summarization call.
type Request struct {
	Text          string
	MinLength     int
	MaxLength     int
	Deterministic bool
}

// Summarizer turns input text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the Summarizer for cfg.Provider.
func New(cfg Config) (Summarizer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Provider {
	case ProviderHuggingFace, "":
		return NewHuggingFace(cfg), nil
	case ProviderGemini:
		return NewGemini(cfg), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}

// IsValidProvider reports whether name is a supported provider.
func IsValidProvider(name string) bool {
	switch name {
	case ProviderHuggingFace, ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

const systemPrompt = "You summarize lists of Hacker News post titles for a daily SaaS trend newsletter. " +
	"Reply with plain text only: one paragraph, no headings, no bullet points, no markdown."

// chatPrompt appends a length instruction for chat models, which have no
// native min/max summary length.
func chatPrompt(req Request) string {
	return fmt.Sprintf("%s\n\nKeep the paragraph between %d and %d words.", req.Text, req.MinLength, req.MaxLength)
}

// maxOutputTokens leaves room for the word bound in chatPrompt.
func maxOutputTokens(req Request) int64 {
	return int64(req.MaxLength * 2)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func cleanText(s string) string {
	return strings.TrimSpace(s)
}
