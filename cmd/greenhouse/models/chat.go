package models

// ChatMessage is one turn of a conversation. Messages are transient: they
// live in the client and arrive as the request payload, nothing is persisted.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
