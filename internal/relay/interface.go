package relay

import (
	"context"

	"github.com/ASB-05/LearnHubPro/internal/hub"
)

// Relay bridges inbound client frames to the message store and fans
// persisted records out to every open channel.
type Relay interface {
	HandleFrame(ctx context.Context, client *hub.Client, raw []byte)
}
