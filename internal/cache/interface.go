package cache

import (
	"context"
	"time"

	"github.com/ASB-05/LearnHubPro/internal/domain"
)

// HistoryCache caches rendered history pages. Only cursored pages are
// cached; the latest page always reads through so fresh appends are visible
// immediately.
type HistoryCache interface {
	Get(ctx context.Context, key string) (*domain.HistoryPage, error)
	Set(ctx context.Context, key string, page *domain.HistoryPage, ttl time.Duration) error
	BuildKey(before string, limit int) string
	Close() error
}
