package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/tigdev/bazaarwatch/internal/alert"
	"github.com/tigdev/bazaarwatch/internal/analytics"
	"github.com/tigdev/bazaarwatch/internal/config"
	"github.com/tigdev/bazaarwatch/internal/database"
	"github.com/tigdev/bazaarwatch/internal/store"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
	"github.com/tigdev/bazaarwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	period := flag.String("period", "1d", "report window: Nd, Nw or Nm")
	item := flag.String("item", "", "report a single item instead of all focus items")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting price report",
		"version", version.Version,
		"period", *period,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	window, err := timeutil.ParsePeriod(*period)
	if err != nil {
		logger.Error("invalid period", "period", *period, "error", err)
		os.Exit(1)
	}

	clock, err := timeutil.NewClock(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	adapter := store.New(pool, clock.Location(), logger)

	var webhook *alert.Webhook
	if cfg.Alert.WebhookURL != "" {
		webhook = alert.NewWebhook(cfg.Alert.WebhookURL,
			alert.WithTimeout(cfg.Alert.Timeout),
			alert.WithLogger(logger),
		)
	}

	items := cfg.FocusItems
	if *item != "" {
		items = []string{*item}
	}
	if len(items) == 0 {
		logger.Error("no items to report: set focus_items or pass -item")
		os.Exit(1)
	}

	now := clock.Now()
	failed := false
	for _, name := range items {
		msg, err := buildReport(ctx, adapter, cfg, name, *period, now.Add(-window), now, logger)
		if err != nil {
			logger.Error("report failed", "item", name, "error", err)
			failed = true
			continue
		}

		if webhook == nil {
			logger.Info("report (webhook disabled)", "message", msg)
			continue
		}
		if err := webhook.SendText(ctx, msg); err != nil {
			logger.Error("report delivery failed", "item", name, "error", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// buildReport reads one item's window back from the store and renders the
// hourly percentile series with rolling stats and the latest volume z-score.
// A short or flat volume history drops the z-score line rather than failing
// the report.
func buildReport(
	ctx context.Context,
	adapter *store.Adapter,
	cfg *config.CollectorConfig,
	item, period string,
	from, to time.Time,
	logger *slog.Logger,
) (string, error) {
	observations, err := adapter.Read(ctx, item, from, to)
	if err != nil {
		return "", err
	}

	report := alert.PeriodReport{Item: item, Period: period}
	if len(observations) == 0 {
		return alert.PeriodReportMessage(report), nil
	}

	report.Percentile, err = analytics.HourlyPercentile(observations, cfg.Analytics.Percentile)
	if err != nil {
		return "", err
	}

	if rolling, err := analytics.RollingStats(report.Percentile, cfg.Analytics.RollingWindow); err == nil {
		report.Rolling = rolling
	} else if !errors.Is(err, analytics.ErrInsufficientData) {
		return "", err
	}

	buckets, err := analytics.HourlySummary(observations)
	if err != nil {
		return "", err
	}
	z, err := analytics.VolumeZScore(analytics.VolumeSeries(buckets), cfg.Analytics.VolumeWindow)
	switch {
	case err == nil:
		report.VolumeZ = z
		report.HasVolumeZ = true
	case errors.Is(err, analytics.ErrInsufficientData) || errors.Is(err, analytics.ErrDivisionByZero):
		logger.Info("volume z-score unavailable", "item", item, "error", err)
	default:
		return "", err
	}

	return alert.PeriodReportMessage(report), nil
}
