package dialback

import (
	"errors"
	"time"
)

// ============================================================================
//                              配置
// ============================================================================

// Config 回拨服务配置
type Config struct {
	// ExchangeTimeout 单次交换的最长耗时
	//
	// 从流被接纳开始计时，超时后交换被强制终止并上报超时结果。
	ExchangeTimeout time.Duration

	// MaxInflight 单连接并发在途交换上限
	//
	// 这是接纳控制参数而非队列长度：超出上限的入站流被立即
	// 丢弃（对端依赖自身超时感知），不排队等待。
	MaxInflight int

	// MaxMessageSize 单条回拨消息的最大编码长度（字节）
	MaxMessageSize int

	// HistorySize 服务层保留的最近交换记录数
	HistorySize int

	// RateLimit 服务层全局入站协商速率（次/秒）
	//
	// 0 表示不限制。限制只作用于服务层 ServeMuxed 入口，
	// 不改变单连接处理器的接纳语义。
	RateLimit float64

	// RateBurst 速率桶容量（仅 RateLimit > 0 时生效）
	RateBurst int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		ExchangeTimeout: DefaultExchangeTimeout,
		MaxInflight:     DefaultMaxInflight,
		MaxMessageSize:  MaxMessageSize,
		HistorySize:     DefaultHistorySize,
		RateLimit:       0, // 默认不限制
		RateBurst:       0,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.ExchangeTimeout <= 0 {
		return errors.New("exchange timeout must be positive")
	}

	if c.MaxInflight <= 0 {
		return errors.New("max inflight must be positive")
	}

	if c.MaxMessageSize <= 0 {
		return errors.New("max message size must be positive")
	}

	if c.HistorySize <= 0 {
		return errors.New("history size must be positive")
	}

	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}

	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return errors.New("rate burst must be positive when rate limit is set")
	}

	return nil
}

// ============================================================================
//                              配置选项
// ============================================================================

// Option 配置选项函数
type Option func(*Config) error

// WithExchangeTimeout 设置单次交换超时时间
func WithExchangeTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return errors.New("exchange timeout must be positive")
		}
		c.ExchangeTimeout = timeout
		return nil
	}
}

// WithMaxInflight 设置单连接并发在途交换上限
func WithMaxInflight(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return errors.New("max inflight must be positive")
		}
		c.MaxInflight = n
		return nil
	}
}

// WithMaxMessageSize 设置回拨消息最大编码长度
func WithMaxMessageSize(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return errors.New("max message size must be positive")
		}
		c.MaxMessageSize = n
		return nil
	}
}

// WithHistorySize 设置保留的交换记录数
func WithHistorySize(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return errors.New("history size must be positive")
		}
		c.HistorySize = n
		return nil
	}
}

// WithRateLimit 设置服务层全局入站速率限制
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Config) error {
		if perSecond < 0 {
			return errors.New("rate limit must not be negative")
		}
		if perSecond > 0 && burst <= 0 {
			return errors.New("rate burst must be positive when rate limit is set")
		}
		c.RateLimit = perSecond
		c.RateBurst = burst
		return nil
	}
}

// ApplyOptions 依次应用配置选项
func ApplyOptions(c *Config, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}
