package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/domain"
)

// CassandraStore persists chat messages in a single-feed Cassandra table
// clustered by TimeUUID, newest first. The feed partition key is fixed per
// deployment; it exists so the table can later be scoped per room without a
// schema change.
type CassandraStore struct {
	session    *gocql.Session
	table      string
	feed       string
	messageTTL time.Duration
}

// NewCassandraStore establishes the session and ensures the schema exists.
func NewCassandraStore(cfg config.CassandraConfig) (*CassandraStore, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = parseConsistency(cfg.Consistency)
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.Timeout = cfg.Timeout
	if cfg.NumConns > 0 {
		cluster.NumConns = cfg.NumConns
	}

	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{
		NumRetries: 3,
		Min:        100 * time.Millisecond,
		Max:        2 * time.Second,
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create cassandra session: %w", err)
	}

	s := &CassandraStore{
		session:    session,
		table:      cfg.Table,
		feed:       cfg.Feed,
		messageTTL: cfg.MessageTTL,
	}

	if err := s.ensureSchema(); err != nil {
		session.Close()
		return nil, err
	}

	return s, nil
}

func (s *CassandraStore) ensureSchema() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			feed text,
			message_id timeuuid,
			username text,
			role text,
			text text,
			created_at timestamp,
			PRIMARY KEY ((feed), message_id)
		) WITH CLUSTERING ORDER BY (message_id DESC)`, s.table)

	if err := s.session.Query(query).Exec(); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (s *CassandraStore) Append(ctx context.Context, username, role, text string) (*domain.ChatMessage, error) {
	id := gocql.TimeUUID()
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO %s (feed, message_id, username, role, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, s.table)
	args := []interface{}{s.feed, id, username, role, text, now}

	if s.messageTTL > 0 {
		query += " USING TTL ?"
		args = append(args, int(s.messageTTL.Seconds()))
	}

	if err := s.session.Query(query, args...).WithContext(ctx).Exec(); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	return &domain.ChatMessage{
		ID:        id.String(),
		Username:  username,
		Role:      role,
		Text:      text,
		CreatedAt: now,
	}, nil
}

func (s *CassandraStore) History(ctx context.Context, before string, limit int) ([]domain.ChatMessage, string, bool, error) {
	// Read limit + 1 newest-first to learn whether older records remain.
	queryLimit := limit + 1

	var query string
	var args []interface{}

	if before == "" {
		query = fmt.Sprintf(`
			SELECT message_id, username, role, text, created_at
			FROM %s
			WHERE feed = ?
			ORDER BY message_id DESC
			LIMIT ?`, s.table)
		args = []interface{}{s.feed, queryLimit}
	} else {
		cursor, err := gocql.ParseUUID(before)
		if err != nil {
			return nil, "", false, fmt.Errorf("invalid history cursor: %w", err)
		}
		query = fmt.Sprintf(`
			SELECT message_id, username, role, text, created_at
			FROM %s
			WHERE feed = ? AND message_id < ?
			ORDER BY message_id DESC
			LIMIT ?`, s.table)
		args = []interface{}{s.feed, cursor, queryLimit}
	}

	iter := s.session.Query(query, args...).WithContext(ctx).Iter()

	var newestFirst []domain.ChatMessage
	var (
		id        gocql.UUID
		msg       domain.ChatMessage
		createdAt time.Time
	)

	for iter.Scan(&id, &msg.Username, &msg.Role, &msg.Text, &createdAt) {
		msg.ID = id.String()
		msg.CreatedAt = createdAt
		newestFirst = append(newestFirst, msg)
		msg = domain.ChatMessage{}
	}

	if err := iter.Close(); err != nil {
		return nil, "", false, fmt.Errorf("failed to iterate messages: %w", err)
	}

	hasMore := len(newestFirst) > limit
	if hasMore {
		newestFirst = newestFirst[:limit]
	}

	messages := reverseChronological(newestFirst)

	var nextCursor string
	if len(messages) > 0 {
		nextCursor = messages[0].ID
	}

	return messages, nextCursor, hasMore, nil
}

func (s *CassandraStore) Close() error {
	s.session.Close()
	return nil
}

// reverseChronological flips a newest-first slice into oldest-first order.
func reverseChronological(msgs []domain.ChatMessage) []domain.ChatMessage {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}

func parseConsistency(s string) gocql.Consistency {
	switch strings.ToUpper(s) {
	case "ANY":
		return gocql.Any
	case "ONE":
		return gocql.One
	case "TWO":
		return gocql.Two
	case "THREE":
		return gocql.Three
	case "QUORUM":
		return gocql.Quorum
	case "ALL":
		return gocql.All
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum
	case "EACH_QUORUM":
		return gocql.EachQuorum
	case "LOCAL_ONE":
		return gocql.LocalOne
	default:
		return gocql.LocalQuorum
	}
}
