package audit

import "time"

// Entry is an append-only record of one interaction. It is never read back
// by the application.
type Entry struct {
	EntryID          string    `json:"entryId"`
	ConversationID   string    `json:"conversationId"`
	UserMessage      string    `json:"userMessage"`
	AssistantMessage string    `json:"assistantMessage"`
	Timestamp        time.Time `json:"timestamp"`
}
