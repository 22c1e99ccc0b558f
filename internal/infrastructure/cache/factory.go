package cache

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appOrder "github.com/erp/fulfillment/internal/application/order"
	"github.com/erp/fulfillment/internal/infrastructure/config"
)

// TaxRateProviderFactory creates tax rate providers based on configuration
type TaxRateProviderFactory struct {
	redisConfig           config.RedisConfig
	defaultRate           decimal.Decimal
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// TaxRateProviderFactoryOption is a functional option for configuring the factory
type TaxRateProviderFactoryOption func(*TaxRateProviderFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TaxRateProviderFactoryOption {
	return func(f *TaxRateProviderFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// provider when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) TaxRateProviderFactoryOption {
	return func(f *TaxRateProviderFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewTaxRateProviderFactory creates a new factory
func NewTaxRateProviderFactory(redisCfg config.RedisConfig, taxCfg config.TaxConfig, opts ...TaxRateProviderFactoryOption) *TaxRateProviderFactory {
	f := &TaxRateProviderFactory{
		redisConfig:           redisCfg,
		defaultRate:           taxCfg.DefaultRate,
		ttl:                   taxCfg.CacheTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateProvider returns a Redis-backed provider when Redis is reachable,
// otherwise falls back to the in-memory provider if fallback is allowed.
func (f *TaxRateProviderFactory) CreateProvider() (appOrder.TaxRateProvider, error) {
	provider, err := NewRedisTaxRateProvider(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.defaultRate, f.ttl)
	if err == nil {
		f.logger.Info("using Redis tax rate provider")
		return provider, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for tax rates but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory tax rate provider. "+
		"Rate overrides will not propagate across instances.",
		zap.Error(err),
	)
	return NewStaticTaxRateProvider(f.defaultRate), nil
}
