package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"lexscreen/internal/platform/redis"
	"lexscreen/internal/regulation/models"
)

// CachedStore decorates a Store with a Redis result cache. The retention for
// each entry comes from the query's advisory CacheTTL, which the strategy
// builder sets per complexity level; queries without a TTL bypass the cache.
//
// Cache failures degrade to the inner store: screening never fails because
// the cache is down.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

// NewCachedStore wraps inner with a Redis cache.
func NewCachedStore(inner Store, client *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, logger: logger}
}

// FindRegulations serves from cache when possible.
func (s *CachedStore) FindRegulations(ctx context.Context, params models.QueryParams) (*models.QueryResult, error) {
	if params.CacheTTL <= 0 {
		return s.inner.FindRegulations(ctx, params)
	}

	key, err := cacheKey(params)
	if err != nil {
		return s.inner.FindRegulations(ctx, params)
	}

	if cached, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var result models.QueryResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	} else if !errors.Is(err, goredis.Nil) {
		s.logger.WarnContext(ctx, "regulation cache read failed", "error", err)
	}

	result, err := s.inner.FindRegulations(ctx, params)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.client.Set(ctx, key, payload, params.CacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "regulation cache write failed", "error", err)
		}
	}

	return result, nil
}

// cacheKey derives a stable key from the query params. CacheTTL is part of
// the struct but irrelevant to result identity, so it is zeroed first.
func cacheKey(params models.QueryParams) (string, error) {
	params.CacheTTL = 0
	payload, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal query params: %w", err)
	}
	sum := sha256.Sum256(payload)
	return "lexscreen:regquery:" + hex.EncodeToString(sum[:]), nil
}
