package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tigdev/bazaarwatch/internal/alert"
	"github.com/tigdev/bazaarwatch/internal/analytics"
	"github.com/tigdev/bazaarwatch/internal/catalog"
	"github.com/tigdev/bazaarwatch/internal/collect"
	"github.com/tigdev/bazaarwatch/internal/config"
	"github.com/tigdev/bazaarwatch/internal/database"
	"github.com/tigdev/bazaarwatch/internal/fetch"
	"github.com/tigdev/bazaarwatch/internal/model"
	"github.com/tigdev/bazaarwatch/internal/selector"
	"github.com/tigdev/bazaarwatch/internal/store"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
	"github.com/tigdev/bazaarwatch/internal/version"
)

// referenceWindow is how far back reference prices look. Wide enough to
// survive thin market hours, short enough to track the current price level.
const referenceWindow = 7 * 24 * time.Hour

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"feed_url", cfg.Feed.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Capture clock: partitions are stamped in the feed's timezone
	clock, err := timeutil.NewClock(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	adapter := store.New(pool, clock.Location(), logger)
	if err := adapter.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	// Load item catalog
	cat, err := catalog.Load(ctx, pool, cfg.Families)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	items, err := cat.CycleItems(cfg.FocusItems)
	if err != nil {
		logger.Error("failed to resolve cycle items", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "items", len(items), "families", len(cat.Families()))

	// Feed client with session cookies from the external login flow
	clientOpts := []fetch.ClientOption{
		fetch.WithTimeout(cfg.Feed.Timeout),
		fetch.WithLogger(logger),
		fetch.WithExtractor(fetch.NewTableExtractor(clock.Location(), logger)),
	}
	if cfg.Feed.CookieFile != "" {
		cookies, err := fetch.LoadSessionCookies(cfg.Feed.CookieFile)
		if err != nil {
			logger.Error("failed to load session cookies", "file", cfg.Feed.CookieFile, "error", err)
			os.Exit(1)
		}
		clientOpts = append(clientOpts, fetch.WithSession(cookies))
	}
	client := fetch.NewClient(cfg.Feed.BaseURL, clientOpts...)

	collector := collect.New(client, cfg.Feed.PageDelay, logger)
	runner := collect.NewRunner(collector, adapter, cfg.Collector.Concurrency, logger)

	// One stamp for the whole cycle: every item lands in the same partition
	// hour even when collection straddles an hour boundary.
	stamp := clock.Stamp()
	result := runner.Run(ctx, stamp, items)

	if ctx.Err() != nil {
		logger.Info("collector interrupted")
		os.Exit(1)
	}

	report(ctx, cfg, clock, adapter, cat, stamp, result, logger)

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
	logger.Info("collector finished", "run", result.Run)
}

// report computes reference prices and sends the hourly price message and
// per-family cheap-listing digests. Analytics failures for one item are
// logged and skipped; they never abort the rest of the report.
func report(
	ctx context.Context,
	cfg *config.CollectorConfig,
	clock *timeutil.Clock,
	adapter *store.Adapter,
	cat *catalog.Catalog,
	stamp timeutil.Stamp,
	result *collect.CycleResult,
	logger *slog.Logger,
) {
	var webhook *alert.Webhook
	if cfg.Alert.WebhookURL != "" {
		webhook = alert.NewWebhook(cfg.Alert.WebhookURL,
			alert.WithTimeout(cfg.Alert.Timeout),
			alert.WithLogger(logger),
		)
	}

	refPrice := func(item string) (float64, bool) {
		now := clock.Now()
		observations, err := adapter.Read(ctx, item, now.Add(-referenceWindow), now)
		if err != nil {
			logger.Warn("reference read failed", "item", item, "error", err)
			return 0, false
		}
		records := make([]model.ListingRecord, len(observations))
		for i, obs := range observations {
			records[i] = obs.Record
		}
		ref, err := analytics.PercentilePrice(records, cfg.Analytics.Percentile)
		if err != nil {
			logger.Warn("reference price unavailable", "item", item, "error", err)
			return 0, false
		}
		return ref, true
	}

	craft := craftModel(cfg.Craft)

	params := selector.Params{
		DiscountMargin: cfg.Selector.DiscountMargin,
		TopN:           cfg.Selector.TopN,
		MinResultCount: cfg.Selector.MinResultCount,
	}

	var prices []alert.ItemPrice
	var profits []alert.ProfitLine

	for _, item := range cfg.FocusItems {
		if ref, ok := refPrice(item); ok {
			prices = append(prices, alert.ItemPrice{Name: item, Reference: ref})
		}
	}

	for _, family := range cat.Families() {
		kernelRef, ok := refPrice(family.Kernel)
		if !ok {
			continue
		}

		if family.Cell != "" {
			if cellRef, ok := refPrice(family.Cell); ok {
				profits = append(profits, alert.ProfitLine{
					Family: family.Name,
					Profit: analytics.LoopProfit(kernelRef, cellRef, craft),
				})
			}
		}

		// Bulk kernel lots are dump offers; tiny fragment lots are not
		// worth buying. Both are excluded before selection.
		kernels := analytics.QuantityFilter{Max: family.MaxKernelQuantity}.Apply(result.Records[family.Kernel])

		var picks []model.ListingRecord
		var effectiveRef float64
		if family.Fragment != "" {
			fragRef, ok := refPrice(family.Fragment)
			if !ok {
				fragRef = kernelRef / float64(family.FragmentRatio)
			}
			fragments := analytics.QuantityFilter{Min: family.MinFragmentLot}.Apply(result.Records[family.Fragment])
			picks = selector.SelectComposite(kernels, fragments, kernelRef, fragRef, family.FragmentRatio, params)
			effectiveRef = selector.EffectiveReference(kernelRef, fragRef, family.FragmentRatio)
		} else {
			picks = selector.SelectPlain(kernels, kernelRef, params)
			effectiveRef = kernelRef
		}

		msg := alert.CheapListingMessage(family.Kernel, effectiveRef, picks, clock.Location())
		send(ctx, webhook, msg, logger)
	}

	if len(prices) > 0 || len(profits) > 0 {
		send(ctx, webhook, alert.HourlyPriceMessage(stamp, prices, profits), logger)
	}
}

// craftModel applies config overrides to the built-in crafting loop rates.
func craftModel(cfg config.CraftConfig) analytics.CraftModel {
	craft := analytics.DefaultCraftModel()
	if cfg.KernelYield > 0 {
		craft.KernelYield = cfg.KernelYield
	}
	if cfg.CellsPerLoop > 0 {
		craft.CellsPerLoop = float64(cfg.CellsPerLoop)
	}
	return craft
}

func send(ctx context.Context, webhook *alert.Webhook, msg string, logger *slog.Logger) {
	if webhook == nil {
		logger.Info("alert (webhook disabled)", "message", msg)
		return
	}
	if err := webhook.SendText(ctx, msg); err != nil {
		logger.Warn("alert delivery failed", "error", err)
	}
}
