package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const minimalConfig = `
recipients:
  - "reader@example.com"
smtp:
  username: "bot@example.com"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SMTP_PASSWORD", "SUMMARIZER_API_KEY", "TELEGRAM_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearSecretEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.Keywords, DefaultKeywords) {
		t.Errorf("Keywords = %v, want defaults", cfg.Keywords)
	}
	if len(cfg.Keywords) != 26 {
		t.Errorf("len(Keywords) = %d, want 26", len(cfg.Keywords))
	}
	if cfg.PagesPerKeyword != 2 {
		t.Errorf("PagesPerKeyword = %d, want %d", cfg.PagesPerKeyword, 2)
	}
	if cfg.SearchBaseURL != "https://hn.algolia.com/api/v1" {
		t.Errorf("SearchBaseURL = %q", cfg.SearchBaseURL)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("FetchTimeout() = %v, want %v", cfg.FetchTimeout(), 10*time.Second)
	}
	if cfg.Summarizer.Provider != "huggingface" {
		t.Errorf("Summarizer.Provider = %q, want %q", cfg.Summarizer.Provider, "huggingface")
	}
	if cfg.SummarizerTimeout() != 60*time.Second {
		t.Errorf("SummarizerTimeout() = %v, want %v", cfg.SummarizerTimeout(), 60*time.Second)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" {
		t.Errorf("SMTP.Host = %q, want %q", cfg.SMTP.Host, "smtp.gmail.com")
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want %d", cfg.SMTP.Port, 587)
	}
	if cfg.SMTP.From != "bot@example.com" {
		t.Errorf("SMTP.From = %q, want username %q", cfg.SMTP.From, "bot@example.com")
	}
	if cfg.SubjectPrefix != "SaaS Trend Summary" {
		t.Errorf("SubjectPrefix = %q", cfg.SubjectPrefix)
	}
	if cfg.DigestTime != "" || cfg.Scheduled() {
		t.Errorf("DigestTime = %q, want run-once default", cfg.DigestTime)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Local")
	}
	if cfg.PushgatewayURL != "" {
		t.Errorf("PushgatewayURL = %q, want empty", cfg.PushgatewayURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestDefaultKeywordsNotAliased(t *testing.T) {
	clearSecretEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Keywords[0] = "Changed"
	if DefaultKeywords[0] != "Notion" {
		t.Errorf("DefaultKeywords mutated through loaded config")
	}
}

func TestLoadOverrideDefaults(t *testing.T) {
	clearSecretEnv(t)

	content := `
keywords: ["Notion", "Figma"]
pages_per_keyword: 3
search_base_url: "http://localhost:9000"
fetch_timeout_secs: 30
summarizer:
  provider: "openai"
  model: "gpt-4o"
  api_key: "sk-test"
  timeout_secs: 15
smtp:
  host: "mail.example.com"
  port: 2525
  username: "login"
  password: "secret"
  from: "digest@example.com"
recipients: ["a@example.com", "b@example.com"]
subject_prefix: "Daily SaaS"
telegram:
  token: "bot-token"
  chat_ids: ["12345"]
digest_time: "18:30"
timezone: "America/New_York"
pushgateway_url: "http://pushgateway:9091"
log_level: "debug"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.Keywords, []string{"Notion", "Figma"}) {
		t.Errorf("Keywords = %v", cfg.Keywords)
	}
	if cfg.PagesPerKeyword != 3 {
		t.Errorf("PagesPerKeyword = %d, want %d", cfg.PagesPerKeyword, 3)
	}
	if cfg.SearchBaseURL != "http://localhost:9000" {
		t.Errorf("SearchBaseURL = %q", cfg.SearchBaseURL)
	}
	if cfg.FetchTimeoutSecs != 30 {
		t.Errorf("FetchTimeoutSecs = %d, want %d", cfg.FetchTimeoutSecs, 30)
	}
	if cfg.Summarizer.Provider != "openai" || cfg.Summarizer.Model != "gpt-4o" || cfg.Summarizer.APIKey != "sk-test" {
		t.Errorf("Summarizer = %+v", cfg.Summarizer)
	}
	if cfg.Summarizer.TimeoutSecs != 15 {
		t.Errorf("Summarizer.TimeoutSecs = %d, want %d", cfg.Summarizer.TimeoutSecs, 15)
	}
	if cfg.SMTP.Host != "mail.example.com" || cfg.SMTP.Port != 2525 {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
	if cfg.SMTP.From != "digest@example.com" {
		t.Errorf("SMTP.From = %q, want %q", cfg.SMTP.From, "digest@example.com")
	}
	if len(cfg.Recipients) != 2 {
		t.Errorf("Recipients = %v", cfg.Recipients)
	}
	if cfg.SubjectPrefix != "Daily SaaS" {
		t.Errorf("SubjectPrefix = %q", cfg.SubjectPrefix)
	}
	if cfg.Telegram.Token != "bot-token" || len(cfg.Telegram.ChatIDs) != 1 {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	if !cfg.Scheduled() || cfg.DigestTime != "18:30" {
		t.Errorf("DigestTime = %q, want %q", cfg.DigestTime, "18:30")
	}
	if cfg.Location().String() != "America/New_York" {
		t.Errorf("Location() = %v, want %q", cfg.Location(), "America/New_York")
	}
	if cfg.PushgatewayURL != "http://pushgateway:9091" {
		t.Errorf("PushgatewayURL = %q", cfg.PushgatewayURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadTelegramOnly(t *testing.T) {
	clearSecretEnv(t)

	content := `
telegram:
  token: "bot-token"
  chat_ids: ["12345"]
`
	if _, err := Load(writeConfig(t, content)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no delivery channel",
			content: `smtp: {username: "bot@example.com"}`,
			wantErr: "delivery channel",
		},
		{
			name: "chat ids without token",
			content: minimalConfig + `
telegram:
  chat_ids: ["1"]
`,
			wantErr: "telegram.token",
		},
		{
			name:    "recipients without sender",
			content: `recipients: ["reader@example.com"]`,
			wantErr: "smtp.from",
		},
		{
			name:    "negative pages",
			content: minimalConfig + `pages_per_keyword: -1`,
			wantErr: "pages_per_keyword",
		},
		{
			name:    "unknown provider",
			content: minimalConfig + `summarizer: {provider: "bard"}`,
			wantErr: "summarizer.provider",
		},
		{
			name:    "missing api key",
			content: minimalConfig + `summarizer: {provider: "anthropic"}`,
			wantErr: "summarizer.api_key",
		},
		{
			name:    "invalid timezone",
			content: minimalConfig + `timezone: "Invalid/Zone"`,
			wantErr: "timezone",
		},
		{
			name:    "invalid log level",
			content: minimalConfig + `log_level: "verbose"`,
			wantErr: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSecretEnv(t)

			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), "validate config: ") {
				t.Errorf("error = %q, want validate config prefix", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidDigestTime(t *testing.T) {
	tests := []struct {
		name string
		time string
	}{
		{"invalid format", "9:00"},
		{"invalid hours", "25:00"},
		{"invalid minutes", "09:60"},
		{"text", "nine"},
		{"missing colon", "0900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSecretEnv(t)

			_, err := Load(writeConfig(t, minimalConfig+`digest_time: "`+tt.time+`"`))
			if err == nil {
				t.Errorf("expected error for invalid digest_time %q", tt.time)
			}
		})
	}
}

func TestLoadValidDigestTimes(t *testing.T) {
	tests := []string{"00:00", "09:00", "12:30", "23:59"}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			clearSecretEnv(t)

			cfg, err := Load(writeConfig(t, minimalConfig+`digest_time: "`+tt+`"`))
			if err != nil {
				t.Fatalf("unexpected error for digest_time %q: %v", tt, err)
			}
			if cfg.DigestTime != tt {
				t.Errorf("DigestTime = %q, want %q", cfg.DigestTime, tt)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, `invalid: yaml: content:`))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestEnvironmentVariableOverride(t *testing.T) {
	content := minimalConfig + `
summarizer:
  provider: "gemini"
  api_key: "from-file"
telegram:
  chat_ids: ["1"]
`
	t.Setenv("SMTP_PASSWORD", "env-password")
	t.Setenv("SUMMARIZER_API_KEY", "env-key")
	t.Setenv("TELEGRAM_TOKEN", "env-token")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SMTP.Password != "env-password" {
		t.Errorf("SMTP.Password = %q, want %q (from env)", cfg.SMTP.Password, "env-password")
	}
	if cfg.Summarizer.APIKey != "env-key" {
		t.Errorf("Summarizer.APIKey = %q, want %q (from env)", cfg.Summarizer.APIKey, "env-key")
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("Telegram.Token = %q, want %q (from env)", cfg.Telegram.Token, "env-token")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("SAAS_DIGEST_CONFIG", "")
	if path := GetConfigPath(); path != "./config.yaml" {
		t.Errorf("GetConfigPath() = %q, want %q", path, "./config.yaml")
	}

	t.Setenv("SAAS_DIGEST_CONFIG", "/custom/config.yaml")
	if path := GetConfigPath(); path != "/custom/config.yaml" {
		t.Errorf("GetConfigPath() = %q, want %q", path, "/custom/config.yaml")
	}
}
