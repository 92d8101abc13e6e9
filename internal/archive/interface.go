package archive

import (
	"context"

	"github.com/ASB-05/LearnHubPro/internal/domain"
)

// Archiver streams persisted chat records to long-term storage. Archival is
// best-effort: failures are logged by implementations and never surfaced to
// the relay path.
type Archiver interface {
	Archive(ctx context.Context, msg *domain.ChatMessage) error
	Close() error
}

// Noop discards every record; used when archival is disabled.
type Noop struct{}

func (Noop) Archive(ctx context.Context, msg *domain.ChatMessage) error { return nil }
func (Noop) Close() error                                               { return nil }
