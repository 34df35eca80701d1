package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kodik/postcard/internal/models"
	"github.com/kodik/postcard/pkg/logging"
)

const sellersKey = "sellers:all"

// SellerSource lists sellers from the Authoritative Store
type SellerSource interface {
	ListSellers(ctx context.Context) ([]models.Seller, error)
}

// SellerCache serves the read-only seller list from Redis, falling back to the
// source on miss or cache failure.
type SellerCache struct {
	cache  *Cache
	source SellerSource
	ttl    time.Duration
	logger *zap.Logger
}

// NewSellerCache creates a cached seller lookup. A nil cache passes through.
func NewSellerCache(cache *Cache, source SellerSource, ttl time.Duration) *SellerCache {
	return &SellerCache{
		cache:  cache,
		source: source,
		ttl:    ttl,
		logger: logging.WithComponent("seller-cache"),
	}
}

// ListSellers returns the cached list, loading it from the source when needed
func (s *SellerCache) ListSellers(ctx context.Context) ([]models.Seller, error) {
	if !s.cache.Enabled() {
		return s.source.ListSellers(ctx)
	}

	var sellers []models.Seller
	err := s.cache.GetJSON(ctx, sellersKey, &sellers)
	if err == nil {
		return sellers, nil
	}
	if !errors.Is(err, ErrMiss) {
		s.logger.Warn("Failed to read sellers from cache", zap.Error(err))
	}

	sellers, err = s.source.ListSellers(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, sellersKey, sellers, s.ttl); err != nil {
		s.logger.Warn("Failed to cache sellers", zap.Error(err))
	}

	return sellers, nil
}

// Invalidate drops the cached seller list
func (s *SellerCache) Invalidate(ctx context.Context) error {
	err := s.cache.Delete(ctx, sellersKey)
	if errors.Is(err, ErrCacheDisabled) {
		return nil
	}
	return err
}
