package config

import "time"

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Feed      FeedConfig      `yaml:"feed"`
	Database  DBConfig        `yaml:"database"`
	Collector CollectConfig   `yaml:"collector"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Selector  SelectorConfig  `yaml:"selector"`
	Craft     CraftConfig     `yaml:"craft"`
	Families  []FamilyConfig  `yaml:"families"`
	// FocusItems are the item names reported on every cycle. Items named
	// by a family are collected regardless.
	FocusItems []string    `yaml:"focus_items"`
	Alert      AlertConfig `yaml:"alert"`
	Timezone   string      `yaml:"timezone"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig holds the upstream bazaar feed settings.
type FeedConfig struct {
	BaseURL    string        `yaml:"base_url"`
	CookieFile string        `yaml:"cookie_file"` // session cookies written by the external login flow
	Timeout    time.Duration `yaml:"timeout"`
	PageDelay  time.Duration `yaml:"page_delay"`
}

// DBConfig holds the PostgreSQL connection for listing history.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CollectConfig holds collection cycle settings.
type CollectConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// AnalyticsConfig holds reference-price and series settings.
type AnalyticsConfig struct {
	Percentile    float64 `yaml:"percentile"`
	RollingWindow int     `yaml:"rolling_window"`
	VolumeWindow  int     `yaml:"volume_window"`
}

// SelectorConfig holds cheap-listing selection settings.
type SelectorConfig struct {
	DiscountMargin int64 `yaml:"discount_margin"`
	TopN           int   `yaml:"top_n"`
	MinResultCount int   `yaml:"min_result_count"`
}

// CraftConfig overrides the crafting expectation used in profit lines.
// Zero values fall back to the built-in model.
type CraftConfig struct {
	KernelYield  float64 `yaml:"kernel_yield"`
	CellsPerLoop int64   `yaml:"cells_per_loop"`
}

// FamilyConfig describes one item family: the whole item (kernel), the
// crafting consumable (cell) and the fragment counterpart of the kernel.
// Used as a fallback when the catalog tables are absent.
type FamilyConfig struct {
	Name              string `yaml:"name"`
	Kernel            string `yaml:"kernel"`
	Cell              string `yaml:"cell"`
	Fragment          string `yaml:"fragment"`
	FragmentRatio     int64  `yaml:"fragment_ratio"`
	MaxKernelQuantity int64  `yaml:"max_kernel_quantity"`
	MinFragmentLot    int64  `yaml:"min_fragment_lot"`
}

// AlertConfig holds the outbound webhook settings.
type AlertConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}
