package conversation

import "time"

// Role tags a transcript entry
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one role-tagged message of a transcript
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State is the transcript owned by one session. Language is the language the
// transcript was conducted in; empty for a fresh session.
type State struct {
	Language  string    `json:"language,omitempty"`
	Messages  []Entry   `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no backing array with s
func (s State) Clone() State {
	out := s
	out.Messages = append([]Entry(nil), s.Messages...)
	return out
}

// AskResult is the outcome of one question
type AskResult struct {
	State  State
	Answer string
	Reset  bool
	Notice string
}
