package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ASB-05/LearnHubPro/internal/cache"
	"github.com/ASB-05/LearnHubPro/internal/domain"
	"github.com/ASB-05/LearnHubPro/internal/store"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

type historyService struct {
	store    store.MessageStore
	cache    cache.HistoryCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewService(s store.MessageStore, c cache.HistoryCache, cacheTTL time.Duration) Service {
	return &historyService{
		store:    s,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *historyService) GetHistory(ctx context.Context, before string, limit int) (*domain.HistoryPage, error) {
	// The latest page is never cached: a client backfilling before it
	// subscribes must observe every committed append.
	if before == "" || s.cache == nil {
		messages, nextCursor, hasMore, err := s.store.History(ctx, before, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		return &domain.HistoryPage{
			Messages:   messages,
			NextCursor: nextCursor,
			HasMore:    hasMore,
		}, nil
	}

	// Cursored pages are immutable (append-only store), so caching them is
	// safe. Singleflight collapses concurrent misses for the same page.
	cacheKey := s.cache.BuildKey(before, limit)

	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		return s.fetchWithCache(ctx, before, limit, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	page, ok := result.(*domain.HistoryPage)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}

	return page, nil
}

func (s *historyService) fetchWithCache(ctx context.Context, before string, limit int, cacheKey string) (*domain.HistoryPage, error) {
	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("cache get error")
	}

	messages, nextCursor, hasMore, err := s.store.History(ctx, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	page := &domain.HistoryPage{
		Messages:   messages,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}

	// Fill the cache off the serving path.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(cacheCtx, cacheKey, page, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("cache set error")
		}
	}()

	return page, nil
}
