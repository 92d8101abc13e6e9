package history

import (
	"context"

	"github.com/ASB-05/LearnHubPro/internal/domain"
)

// Service serves chat history pages, oldest-first.
type Service interface {
	// GetHistory returns up to limit messages older than the before cursor,
	// or the most recent page when before is empty.
	GetHistory(ctx context.Context, before string, limit int) (*domain.HistoryPage, error)
}
