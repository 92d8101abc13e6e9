package domain

import "time"

// Roles used across the course platform. The relay does not enforce
// membership; the role travels with each submission as a display label.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// ChatMessage is a persisted chat record. ID is a TimeUUID assigned by the
// store on insert, so sorting by ID is sorting by insertion order.
// CreatedAt is assigned by the store; records are never mutated.
type ChatMessage struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryPage is one page of chat history, oldest-first. NextCursor is the
// ID of the oldest message on the page and can be passed back as `before`
// to page further into the past.
type HistoryPage struct {
	Messages   []ChatMessage `json:"messages"`
	NextCursor string        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}
