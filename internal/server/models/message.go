package models

import "time"

// Message is a chat history row. UserID is nil for bot replies and any
// content produced before an identity was bound to the connection.
type Message struct {
	ID          string
	UserID      *string
	MessageType string
	Content     string
	CreatedAt   time.Time
}

// Message types stored in history.
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)
