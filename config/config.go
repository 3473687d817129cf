package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"saas-trend-digest/summarizer"
)

// Config holds all application configuration.
type Config struct {
	Keywords         []string         `yaml:"keywords"`
	PagesPerKeyword  int              `yaml:"pages_per_keyword"`
	SearchBaseURL    string           `yaml:"search_base_url"`
	FetchTimeoutSecs int              `yaml:"fetch_timeout_secs"`
	Summarizer       SummarizerConfig `yaml:"summarizer"`
	SMTP             SMTPConfig       `yaml:"smtp"`
	Recipients       []string         `yaml:"recipients"`
	SubjectPrefix    string           `yaml:"subject_prefix"`
	Telegram         TelegramConfig   `yaml:"telegram"`
	DigestTime       string           `yaml:"digest_time"`
	Timezone         string           `yaml:"timezone"`
	PushgatewayURL   string           `yaml:"pushgateway_url"`
	LogLevel         string           `yaml:"log_level"`
}

// SummarizerConfig selects the summarization backend.
type SummarizerConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// TelegramConfig enables delivery to Telegram chats.
type TelegramConfig struct {
	Token   string   `yaml:"token"`
	ChatIDs []string `yaml:"chat_ids"`
}

// DefaultKeywords are the SaaS products tracked when none are configured.
var DefaultKeywords = []string{
	"Notion", "Zapier", "Airtable", "Figma", "Slack", "Linear", "n8n",
	"ClickUp", "Asana", "Trello", "Webflow", "Calendly", "Superhuman",
	"Loom", "Softr", "Retool", "Framer", "Bubble", "Ghost", "Obsidian",
	"Basecamp", "Pitch", "Coda", "Jira", "Monday.com", "Freshdesk",
}

// digestTimeRegex validates HH:MM format with proper ranges.
var digestTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("SAAS_DIGEST_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// FetchTimeout is the per-request timeout for the search API.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// SummarizerTimeout is the per-request timeout for the summarizer.
func (c *Config) SummarizerTimeout() time.Duration {
	return time.Duration(c.Summarizer.TimeoutSecs) * time.Second
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Scheduled reports whether the digest runs daily instead of once.
func (c *Config) Scheduled() bool {
	return c.DigestTime != ""
}

func applyDefaults(cfg *Config) {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = append([]string(nil), DefaultKeywords...)
	}
	if cfg.PagesPerKeyword == 0 {
		cfg.PagesPerKeyword = 2
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = "https://hn.algolia.com/api/v1"
	}
	if cfg.FetchTimeoutSecs == 0 {
		cfg.FetchTimeoutSecs = 10
	}
	if cfg.Summarizer.Provider == "" {
		cfg.Summarizer.Provider = summarizer.ProviderHuggingFace
	}
	if cfg.Summarizer.TimeoutSecs == 0 {
		cfg.Summarizer.TimeoutSecs = 60
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "SaaS Trend Summary"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("SUMMARIZER_API_KEY"); v != "" {
		cfg.Summarizer.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
}

func validate(cfg *Config) error {
	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	if cfg.PagesPerKeyword < 1 {
		return fmt.Errorf("pages_per_keyword must be at least 1, got %d", cfg.PagesPerKeyword)
	}
	if !summarizer.IsValidProvider(cfg.Summarizer.Provider) {
		return fmt.Errorf("unknown summarizer.provider %q", cfg.Summarizer.Provider)
	}
	if cfg.Summarizer.Provider != summarizer.ProviderHuggingFace && cfg.Summarizer.APIKey == "" {
		return fmt.Errorf("summarizer.api_key is required for provider %q", cfg.Summarizer.Provider)
	}

	hasTelegram := cfg.Telegram.Token != "" && len(cfg.Telegram.ChatIDs) > 0
	if len(cfg.Recipients) == 0 && !hasTelegram {
		return fmt.Errorf("at least one delivery channel is required (recipients or telegram.chat_ids)")
	}
	if len(cfg.Telegram.ChatIDs) > 0 && cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required when telegram.chat_ids is set")
	}
	if len(cfg.Recipients) > 0 && cfg.SMTP.From == "" {
		return fmt.Errorf("smtp.from or smtp.username is required when recipients are set")
	}

	if cfg.DigestTime != "" && !digestTimeRegex.MatchString(cfg.DigestTime) {
		return fmt.Errorf("digest_time must be in HH:MM format (00:00-23:59), got %q", cfg.DigestTime)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	return nil
}
