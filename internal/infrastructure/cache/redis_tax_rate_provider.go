package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisTaxRateProvider resolves per-organization tax rates from Redis,
// falling back to a configured default when no override is stored. Rates
// are decimal fractions (0.18 for 18%).
//
// Overrides live under tax:rate:<orgID> and carry a TTL so a removed
// override converges back to the default without an explicit invalidation
// path.
type RedisTaxRateProvider struct {
	client      *redis.Client
	keyPrefix   string
	defaultRate decimal.Decimal
	ttl         time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisTaxRateProvider connects to Redis and returns a provider. The
// connection is verified up front so a misconfigured Redis fails at startup
// rather than on the first order.
func NewRedisTaxRateProvider(cfg RedisConfig, defaultRate decimal.Decimal, ttl time.Duration) (*RedisTaxRateProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTaxRateProvider{
		client:      client,
		keyPrefix:   "tax:rate:",
		defaultRate: defaultRate,
		ttl:         ttl,
	}, nil
}

// NewRedisTaxRateProviderWithClient creates a provider with an existing
// Redis client. This is useful for testing or when sharing a client across
// components.
func NewRedisTaxRateProviderWithClient(client *redis.Client, defaultRate decimal.Decimal, ttl time.Duration) *RedisTaxRateProvider {
	return &RedisTaxRateProvider{
		client:      client,
		keyPrefix:   "tax:rate:",
		defaultRate: defaultRate,
		ttl:         ttl,
	}
}

// TaxRate returns the organization's tax rate. A missing key means the
// default applies; a malformed stored value is treated as an error rather
// than silently falling back, since it indicates operator mistake.
func (p *RedisTaxRateProvider) TaxRate(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	raw, err := p.client.Get(ctx, p.keyPrefix+orgID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return p.defaultRate, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read tax rate: %w", err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored tax rate for %s is not a decimal: %w", orgID, err)
	}
	return rate, nil
}

// SetOverride stores a per-organization rate override with the provider's TTL
func (p *RedisTaxRateProvider) SetOverride(ctx context.Context, orgID uuid.UUID, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be between 0 and 1, got %s", rate)
	}
	if err := p.client.Set(ctx, p.keyPrefix+orgID.String(), rate.String(), p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store tax rate: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (p *RedisTaxRateProvider) Close() error {
	return p.client.Close()
}
