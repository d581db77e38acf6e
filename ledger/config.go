package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type contextKey struct{}

// DefaultTolerance is the largest difference between a reported and a
// computed balance that is still accepted.
var DefaultTolerance = decimal.RequireFromString("0.005")

// Config controls reconciliation.
type Config struct {
	// Tolerance is the accepted absolute difference per account.
	Tolerance decimal.Decimal

	// Year is the fiscal year to reconcile, 0 for the current year.
	Year int
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{Tolerance: DefaultTolerance}
}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
