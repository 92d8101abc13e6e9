package store

import (
	"context"

	"github.com/ASB-05/LearnHubPro/internal/domain"
)

// MessageStore is the append-only durable store for chat records. There are
// no update or delete operations.
type MessageStore interface {
	// Append persists a new record with a store-assigned TimeUUID id and
	// UTC timestamp and returns the persisted form. Callers must not
	// broadcast a record that failed to append.
	Append(ctx context.Context, username, role, text string) (*domain.ChatMessage, error)

	// History returns up to limit records older than the `before` cursor
	// (all of history when before is empty), oldest-first. nextCursor is
	// the id of the oldest returned record; hasMore reports whether older
	// records exist past it. An empty store yields an empty page, not an
	// error.
	History(ctx context.Context, before string, limit int) (messages []domain.ChatMessage, nextCursor string, hasMore bool, err error)

	Close() error
}
