package cache

import (
	"context"
	"errors"

	"waves-backend/internal/domain"
)

// ErrCacheMiss is returned when no cart is cached for the user.
var ErrCacheMiss = errors.New("cache miss")

// CartCache stores per-user cart snapshots. Misses and cache errors are
// soft failures; callers fall back to the document store.
type CartCache interface {
	Get(ctx context.Context, userID string) ([]domain.CartLine, error)
	Set(ctx context.Context, userID string, cart []domain.CartLine) error
	Delete(ctx context.Context, userID string) error
}

// Noop satisfies CartCache when no redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]domain.CartLine, error) {
	return nil, ErrCacheMiss
}

func (Noop) Set(context.Context, string, []domain.CartLine) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }
