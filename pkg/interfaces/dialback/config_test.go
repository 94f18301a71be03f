package dialback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate(), "默认配置必须通过验证")
	assert.Equal(t, DefaultExchangeTimeout, cfg.ExchangeTimeout)
	assert.Equal(t, DefaultMaxInflight, cfg.MaxInflight)
	assert.Equal(t, MaxMessageSize, cfg.MaxMessageSize)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
	assert.Zero(t, cfg.RateLimit, "默认不限速")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"默认配置", func(*Config) {}, false},
		{"超时为零", func(c *Config) { c.ExchangeTimeout = 0 }, true},
		{"超时为负", func(c *Config) { c.ExchangeTimeout = -time.Second }, true},
		{"并发上限为零", func(c *Config) { c.MaxInflight = 0 }, true},
		{"消息上限为零", func(c *Config) { c.MaxMessageSize = 0 }, true},
		{"记录数为零", func(c *Config) { c.HistorySize = 0 }, true},
		{"速率为负", func(c *Config) { c.RateLimit = -1 }, true},
		{"限速但桶为零", func(c *Config) { c.RateLimit = 5; c.RateBurst = 0 }, true},
		{"限速且桶合法", func(c *Config) { c.RateLimit = 5; c.RateBurst = 8 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("nil 配置", func(t *testing.T) {
		var cfg *Config
		assert.Error(t, cfg.Validate())
	})
}

func TestApplyOptions(t *testing.T) {
	cfg := DefaultConfig()

	err := ApplyOptions(cfg,
		WithExchangeTimeout(2*time.Second),
		WithMaxInflight(4),
		WithMaxMessageSize(1024),
		WithHistorySize(32),
		WithRateLimit(10, 20),
	)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.ExchangeTimeout)
	assert.Equal(t, 4, cfg.MaxInflight)
	assert.Equal(t, 1024, cfg.MaxMessageSize)
	assert.Equal(t, 32, cfg.HistorySize)
	assert.Equal(t, float64(10), cfg.RateLimit)
	assert.Equal(t, 20, cfg.RateBurst)
}

func TestApplyOptions_Invalid(t *testing.T) {
	cfg := DefaultConfig()

	assert.Error(t, ApplyOptions(cfg, WithExchangeTimeout(0)))
	assert.Error(t, ApplyOptions(cfg, WithMaxInflight(-1)))
	assert.Error(t, ApplyOptions(cfg, WithRateLimit(1, 0)))
}
