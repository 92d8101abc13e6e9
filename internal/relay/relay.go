package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ASB-05/LearnHubPro/internal/archive"
	"github.com/ASB-05/LearnHubPro/internal/domain"
	"github.com/ASB-05/LearnHubPro/internal/hub"
	"github.com/ASB-05/LearnHubPro/internal/store"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

const archiveTimeout = 5 * time.Second

type messageRelay struct {
	store    store.MessageStore
	hub      *hub.Hub
	archiver archive.Archiver
}

func NewRelay(s store.MessageStore, h *hub.Hub, a archive.Archiver) Relay {
	if a == nil {
		a = archive.Noop{}
	}
	return &messageRelay{
		store:    s,
		hub:      h,
		archiver: a,
	}
}

// HandleFrame is invoked once per inbound frame and may run concurrently for
// frames arriving on different channels. Malformed frames and persistence
// failures are dropped without a reply to the sender; only a persisted
// record is ever broadcast.
func (r *messageRelay) HandleFrame(ctx context.Context, client *hub.Client, raw []byte) {
	var base domain.BaseFrame
	if err := json.Unmarshal(raw, &base); err != nil {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldClientID, client.ID).Msg("discarding unparseable frame")
		return
	}

	switch base.Type {
	case domain.FrameTypeSendMessage:
		r.handleSend(ctx, client, raw)

	case domain.FrameTypePing:
		client.SendFrame(domain.PongFrame{Type: domain.FrameTypePong})

	default:
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldClientID, client.ID).Str("frame_type", base.Type).Msg("discarding unknown frame")
	}
}

func (r *messageRelay) handleSend(ctx context.Context, client *hub.Client, raw []byte) {
	payload, err := domain.ParseSendMessage(raw)
	if err != nil {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldClientID, client.ID).Err(err).Msg("discarding malformed submission")
		return
	}

	msg, err := r.store.Append(ctx, payload.Username, payload.Role, payload.Text)
	if err != nil {
		// Dropped, not broadcast. The sender gets no reply.
		l := log.Ctx(ctx)
		l.Error().Str(log.FieldClientID, client.ID).Err(err).Msg("failed to persist submission")
		return
	}

	if err := r.hub.Broadcast(domain.NewMessage(*msg)); err != nil {
		l := log.Ctx(ctx)
		l.Error().Str(log.FieldMessageID, msg.ID).Err(err).Msg("failed to broadcast message")
	}

	// Archive off the hot path; the record is already durable and delivered.
	go func() {
		actx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := r.archiver.Archive(actx, msg); err != nil {
			l := log.L()
			l.Warn().Str(log.FieldMessageID, msg.ID).Err(err).Msg("failed to archive message")
		}
	}()
}
