package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *CollectorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Feed.BaseURL == "" {
		return errors.New("feed.base_url is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Collector.Concurrency < 1 {
		return errors.New("collector.concurrency must be >= 1")
	}

	if c.Analytics.Percentile < 0 || c.Analytics.Percentile > 1 {
		return fmt.Errorf("analytics.percentile must be in [0, 1], got %g", c.Analytics.Percentile)
	}
	if c.Analytics.RollingWindow < 2 {
		return errors.New("analytics.rolling_window must be >= 2")
	}
	if c.Analytics.VolumeWindow < 2 {
		return errors.New("analytics.volume_window must be >= 2")
	}

	if c.Selector.DiscountMargin < 0 {
		return errors.New("selector.discount_margin must be >= 0")
	}
	if c.Selector.TopN < 1 {
		return errors.New("selector.top_n must be >= 1")
	}
	if c.Selector.MinResultCount < 1 {
		return errors.New("selector.min_result_count must be >= 1")
	}

	for i, f := range c.Families {
		if err := f.validate(fmt.Sprintf("families[%d]", i)); err != nil {
			return err
		}
	}

	return nil
}

func (f *FamilyConfig) validate(prefix string) error {
	if f.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if f.Kernel == "" {
		return fmt.Errorf("%s.kernel is required", prefix)
	}
	if f.Fragment != "" && f.FragmentRatio < 1 {
		return fmt.Errorf("%s.fragment_ratio must be >= 1 when a fragment is set", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
