package models

import "time"

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is a single prior message in a chat, oldest-to-newest
// ordering within a history slice.
type ConversationTurn struct {
	Role    string `bson:"role" json:"role"` // "user" or "assistant"
	Content string `bson:"content" json:"content"`
}

// Attachment carries the already-extracted text of a file the user attached
// to a single request. Text is hard-truncated by the pipeline before it is
// embedded in any prompt.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Text string `json:"text"`
}

// GenerateRequest is the request body for the content-generation endpoint
type GenerateRequest struct {
	Optimizer  *Optimizer         `json:"optimizer"`
	UserInput  string             `json:"userInput"`
	History    []ConversationTurn `json:"history,omitempty"`
	Attachment *Attachment        `json:"attachment,omitempty"`
}

// GenerateResponse is the response body for the content-generation endpoint
type GenerateResponse struct {
	OptimizedContent string `json:"optimizedContent"`
}

// StoredMessage is a chat message persisted per (user, optimizer)
type StoredMessage struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"userId" json:"user_id"`
	OptimizerID string    `bson:"optimizerId" json:"optimizer_id"`
	Role        string    `bson:"role" json:"role"`
	Content     string    `bson:"content" json:"content"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}

// ClearChatRequest is the request body for clearing a chat history
type ClearChatRequest struct {
	OptimizerID string `json:"optimizerId"`
}
