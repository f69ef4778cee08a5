package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultFeedTimeout    = 30 * time.Second
	DefaultPageDelay      = 2 * time.Second
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultConcurrency    = 4
	DefaultPercentile     = 0.05
	DefaultRollingWindow  = 24
	DefaultVolumeWindow   = 24
	DefaultDiscountMargin = 500
	DefaultTopN           = 15
	DefaultMinResultCount = 3
	DefaultAlertTimeout   = 10 * time.Second
	DefaultTimezone       = "Asia/Tokyo"
)

func (c *CollectorConfig) applyDefaults() {
	// Feed defaults
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.PageDelay == 0 {
		c.Feed.PageDelay = DefaultPageDelay
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Collector defaults
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultConcurrency
	}

	// Analytics defaults
	if c.Analytics.Percentile == 0 {
		c.Analytics.Percentile = DefaultPercentile
	}
	if c.Analytics.RollingWindow == 0 {
		c.Analytics.RollingWindow = DefaultRollingWindow
	}
	if c.Analytics.VolumeWindow == 0 {
		c.Analytics.VolumeWindow = DefaultVolumeWindow
	}

	// Selector defaults
	if c.Selector.DiscountMargin == 0 {
		c.Selector.DiscountMargin = DefaultDiscountMargin
	}
	if c.Selector.TopN == 0 {
		c.Selector.TopN = DefaultTopN
	}
	if c.Selector.MinResultCount == 0 {
		c.Selector.MinResultCount = DefaultMinResultCount
	}

	// Alert defaults
	if c.Alert.Timeout == 0 {
		c.Alert.Timeout = DefaultAlertTimeout
	}

	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
}
