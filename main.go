package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"saas-trend-digest/config"
	"saas-trend-digest/digest"
	"saas-trend-digest/hn"
	"saas-trend-digest/metrics"
	"saas-trend-digest/notify"
	"saas-trend-digest/scheduler"
	"saas-trend-digest/summarizer"
)

func main() {
	// Set up structured logging; the level is raised or lowered once config is read.
	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	slog.Info("starting SaaS trend digest")

	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	level.Set(parseLevel(cfg.LogLevel))
	slog.Info("config loaded", "path", configPath, "keywords", len(cfg.Keywords), "provider", cfg.Summarizer.Provider)

	m := metrics.New()

	runner, err := newRunner(cfg, m)
	if err != nil {
		slog.Error("failed to initialize digest runner", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Scheduled() {
		err := runDigest(ctx, runner, m, cfg.PushgatewayURL)
		stop()
		if err != nil {
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New(cfg.Location())
	if err := sched.ScheduleDaily(cfg.DigestTime, func(jobCtx context.Context) {
		runDigest(jobCtx, runner, m, cfg.PushgatewayURL)
	}); err != nil {
		slog.Error("failed to schedule digest", "error", err)
		os.Exit(1)
	}
	sched.Start()
	slog.Info("digest scheduled", "time", cfg.DigestTime, "timezone", cfg.Timezone, "next", sched.Next())

	<-ctx.Done()
	slog.Info("received shutdown signal")
	sched.Stop()
	slog.Info("scheduler stopped")
}

// runDigest performs one full run and pushes metrics afterwards.
func runDigest(ctx context.Context, runner *digest.Runner, m *metrics.Metrics, pushgatewayURL string) error {
	_, err := runner.Run(ctx)
	if err != nil {
		slog.Error("digest run failed", "error", err)
	}
	if pushErr := m.Push(pushgatewayURL); pushErr != nil {
		slog.Warn("failed to push metrics", "url", pushgatewayURL, "error", pushErr)
	}
	return err
}

func newRunner(cfg *config.Config, m *metrics.Metrics) (*digest.Runner, error) {
	hnClient := hn.NewClient(
		hn.WithBaseURL(cfg.SearchBaseURL),
		hn.WithTimeout(cfg.FetchTimeout()),
	)

	sum, err := summarizer.New(summarizer.Config{
		Provider: cfg.Summarizer.Provider,
		Model:    cfg.Summarizer.Model,
		APIKey:   cfg.Summarizer.APIKey,
		BaseURL:  cfg.Summarizer.BaseURL,
		Timeout:  cfg.SummarizerTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	notifier, err := newNotifier(cfg, m)
	if err != nil {
		return nil, err
	}

	return digest.NewRunner(
		&searcherAdapter{client: hnClient},
		&summarizerAdapter{summarizer: sum},
		notifier,
		digest.WithKeywords(cfg.Keywords),
		digest.WithPagesPerKeyword(cfg.PagesPerKeyword),
		digest.WithTimezone(cfg.Location()),
		digest.WithMetrics(m),
	), nil
}

func newNotifier(cfg *config.Config, m *metrics.Metrics) (*notify.Notifier, error) {
	loc := cfg.Location()
	opts := []notify.Option{
		notify.WithSubjectPrefix(cfg.SubjectPrefix),
		notify.WithClock(func() time.Time { return time.Now().In(loc) }),
		notify.WithMetrics(m),
	}

	if len(cfg.Recipients) > 0 {
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		opts = append(opts, notify.WithChannel("email", sender, cfg.Recipients))
		slog.Info("email delivery enabled", "host", cfg.SMTP.Host, "recipients", len(cfg.Recipients))
	}

	if cfg.Telegram.Token != "" && len(cfg.Telegram.ChatIDs) > 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, fmt.Errorf("initialize telegram bot: %w", err)
		}
		opts = append(opts, notify.WithChannel("telegram", notify.NewTelegramSender(bot), cfg.Telegram.ChatIDs))
		slog.Info("telegram delivery enabled", "username", bot.Self.UserName, "chats", len(cfg.Telegram.ChatIDs))
	}

	return notify.New(opts...), nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Adapter types to bridge between our interfaces and the digest package interfaces

type searcherAdapter struct {
	client *hn.Client
}

func (s *searcherAdapter) Search(ctx context.Context, query string, page int) ([]digest.SearchHit, error) {
	hits, err := s.client.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}

	out := make([]digest.SearchHit, len(hits))
	for i, h := range hits {
		out[i] = digest.SearchHit{
			ObjectID:      h.ObjectID,
			Title:         h.Title,
			URL:           h.URL,
			Points:        h.Points,
			NumComments:   h.NumComments,
			CreatedAt:     h.CreatedAt,
			CreatedAtUnix: h.CreatedAtI,
		}
	}
	return out, nil
}

type summarizerAdapter struct {
	summarizer summarizer.Summarizer
}

func (s *summarizerAdapter) Summarize(ctx context.Context, req digest.SummaryRequest) (string, error) {
	return s.summarizer.Summarize(ctx, summarizer.Request{
		Text:          req.Text,
		MinLength:     req.MinLength,
		MaxLength:     req.MaxLength,
		Deterministic: req.Deterministic,
	})
}
