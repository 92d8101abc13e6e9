package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/domain"
	"github.com/ASB-05/LearnHubPro/internal/hub"
)

type fakeStore struct {
	mu   sync.Mutex
	msgs []domain.ChatMessage
	fail bool
	seq  int
}

func (s *fakeStore) Append(ctx context.Context, username, role, text string) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store unreachable")
	}
	s.seq++
	msg := domain.ChatMessage{
		ID:        fmt.Sprintf("%08d", s.seq),
		Username:  username,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	s.msgs = append(s.msgs, msg)
	return &msg, nil
}

func (s *fakeStore) History(ctx context.Context, before string, limit int) ([]domain.ChatMessage, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := len(s.msgs)
	if before != "" {
		end = 0
		for i, m := range s.msgs {
			if m.ID == before {
				end = i
				break
			}
		}
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	page := append([]domain.ChatMessage(nil), s.msgs[start:end]...)
	var next string
	if len(page) > 0 {
		next = page[0].ID
	}
	return page, next, start > 0, nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

type fakeArchiver struct {
	mu       sync.Mutex
	archived []domain.ChatMessage
}

func (a *fakeArchiver) Archive(ctx context.Context, msg *domain.ChatMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, *msg)
	return nil
}

func (a *fakeArchiver) Close() error { return nil }

func (a *fakeArchiver) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.archived)
}

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     8,
	}
}

func newTestHub(t *testing.T, clientIDs ...string) (*hub.Hub, []*hub.Client) {
	t.Helper()
	h := hub.NewHub(testWSConfig())
	go h.Run()

	clients := make([]*hub.Client, 0, len(clientIDs))
	for _, id := range clientIDs {
		c := hub.NewClient(id, h, nil, testWSConfig())
		h.Register(c)
		clients = append(clients, c)
	}

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != len(clientIDs) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.ClientCount() != len(clientIDs) {
		t.Fatalf("client count = %d, want %d", h.ClientCount(), len(clientIDs))
	}
	return h, clients
}

func recvNewMessage(t *testing.T, c *hub.Client, timeout time.Duration) domain.NewMessageFrame {
	t.Helper()
	select {
	case data := <-c.Send:
		var frame domain.NewMessageFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return frame
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for frame on client %s", c.ID)
		return domain.NewMessageFrame{}
	}
}

func expectNoFrame(t *testing.T, c *hub.Client, timeout time.Duration) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("expected no frame, got %s", data)
	case <-time.After(timeout):
	}
}

func TestValidSubmissionIsPersistedAndBroadcastToAll(t *testing.T) {
	st := &fakeStore{}
	arch := &fakeArchiver{}
	h, clients := newTestHub(t, "a", "b")
	r := NewRelay(st, h, arch)

	raw := []byte(`{"type":"send_message","payload":{"username":"alice","role":"student","text":"hi"}}`)
	r.HandleFrame(context.Background(), clients[0], raw)

	// Sender and the other open channel both receive the persisted form.
	for _, c := range clients {
		frame := recvNewMessage(t, c, time.Second)
		if frame.Type != domain.FrameTypeNewMessage {
			t.Errorf("frame type = %q, want %q", frame.Type, domain.FrameTypeNewMessage)
		}
		if frame.Payload.Username != "alice" || frame.Payload.Text != "hi" {
			t.Errorf("payload = %+v", frame.Payload)
		}
		if frame.Payload.ID == "" || frame.Payload.CreatedAt.IsZero() {
			t.Errorf("broadcast record missing server-assigned fields: %+v", frame.Payload)
		}
	}

	if st.count() != 1 {
		t.Errorf("store has %d messages, want 1", st.count())
	}

	// The same record ends history, fetched fresh.
	msgs, _, _, err := st.History(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(msgs) != 1 || msgs[len(msgs)-1].Text != "hi" {
		t.Errorf("history = %+v", msgs)
	}
}

func TestMalformedFrameIsDiscardedSilently(t *testing.T) {
	st := &fakeStore{}
	h, clients := newTestHub(t, "a", "b")
	r := NewRelay(st, h, nil)

	cases := [][]byte{
		[]byte(`{not json`),
		[]byte(`{"type":"send_message","payload":{"username":"alice","role":"student"}}`),
		[]byte(`{"type":"unknown_kind","payload":{"username":"alice","role":"student","text":"hi"}}`),
	}

	for _, raw := range cases {
		r.HandleFrame(context.Background(), clients[0], raw)
	}

	if st.count() != 0 {
		t.Errorf("store has %d messages, want 0", st.count())
	}
	for _, c := range clients {
		expectNoFrame(t, c, 50*time.Millisecond)
	}
}

func TestPersistenceFailureSuppressesBroadcast(t *testing.T) {
	st := &fakeStore{fail: true}
	arch := &fakeArchiver{}
	h, clients := newTestHub(t, "a", "b")
	r := NewRelay(st, h, arch)

	raw := []byte(`{"type":"send_message","payload":{"username":"alice","role":"student","text":"hi"}}`)
	r.HandleFrame(context.Background(), clients[0], raw)

	for _, c := range clients {
		expectNoFrame(t, c, 50*time.Millisecond)
	}
	if arch.count() != 0 {
		t.Errorf("archiver received %d records, want 0", arch.count())
	}
}

func TestPersistedRecordIsArchived(t *testing.T) {
	st := &fakeStore{}
	arch := &fakeArchiver{}
	h, clients := newTestHub(t, "a")
	r := NewRelay(st, h, arch)

	raw := []byte(`{"type":"send_message","payload":{"username":"alice","role":"student","text":"hi"}}`)
	r.HandleFrame(context.Background(), clients[0], raw)
	recvNewMessage(t, clients[0], time.Second)

	deadline := time.Now().Add(time.Second)
	for arch.count() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if arch.count() != 1 {
		t.Fatalf("archiver received %d records, want 1", arch.count())
	}
}

func TestPingGetsPongOnSenderOnly(t *testing.T) {
	st := &fakeStore{}
	h, clients := newTestHub(t, "a", "b")
	r := NewRelay(st, h, nil)

	r.HandleFrame(context.Background(), clients[0], []byte(`{"type":"ping"}`))

	select {
	case data := <-clients[0].Send:
		var frame domain.PongFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("unmarshal pong: %v", err)
		}
		if frame.Type != domain.FrameTypePong {
			t.Errorf("frame type = %q, want %q", frame.Type, domain.FrameTypePong)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pong")
	}

	expectNoFrame(t, clients[1], 50*time.Millisecond)
}

func TestConcurrentSubmissionsAllLand(t *testing.T) {
	st := &fakeStore{}
	h, clients := newTestHub(t, "a")
	r := NewRelay(st, h, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw := []byte(fmt.Sprintf(`{"type":"send_message","payload":{"username":"u%d","role":"student","text":"m%d"}}`, i, i))
			r.HandleFrame(context.Background(), clients[0], raw)
		}(i)
	}
	wg.Wait()

	if st.count() != n {
		t.Errorf("store has %d messages, want %d", st.count(), n)
	}
}
