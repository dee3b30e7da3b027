package conversation

import (
	"context"
	"strings"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

// Answerer is the external answering service. The transcript it receives
// starts with the system instruction.
type Answerer interface {
	Answer(ctx context.Context, transcript []Entry) (string, error)
}

// Manager applies one question to a transcript. It never mutates the state
// it is given; persisting the returned state is up to the caller.
type Manager struct {
	answerer    Answerer
	maxMessages int
}

// NewManager creates a manager. maxMessages caps the stored transcript;
// zero or less keeps everything. A positive cap keeps at least the latest
// question and answer.
func NewManager(answerer Answerer, maxMessages int) *Manager {
	if maxMessages == 1 {
		maxMessages = 2
	}
	return &Manager{
		answerer:    answerer,
		maxMessages: maxMessages,
	}
}

// Ask resets the transcript when the language changed, forwards it with the
// new question to the answerer and appends the reply
func (m *Manager) Ask(ctx context.Context, state State, question, language string) (*AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.NewEmptyQuestionError()
	}
	language = strings.TrimSpace(language)

	next := state.Clone()
	result := &AskResult{}

	if detected := DetectLanguage(state); detected != "" && !sameLanguage(detected, language) {
		next.Messages = nil
		result.Reset = true
		result.Notice = ResetNotice
	}
	next.Messages = withoutSystemEntries(next.Messages)
	next.Language = language

	next.Messages = append(next.Messages, Entry{Role: RoleUser, Content: question})

	transcript := make([]Entry, 0, len(next.Messages)+1)
	transcript = append(transcript, Entry{Role: RoleSystem, Content: SystemPrompt(language)})
	transcript = append(transcript, next.Messages...)

	answer, err := m.answerer.Answer(ctx, transcript)
	if err != nil {
		return nil, errors.NewUpstreamError("answering service failed", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, errors.NewUpstreamError("answering service returned no answer", nil)
	}

	next.Messages = append(next.Messages, Entry{Role: RoleAssistant, Content: answer})
	next.Messages = trimTranscript(next.Messages, m.maxMessages)

	result.State = next
	result.Answer = answer
	return result, nil
}

// withoutSystemEntries drops stored instructions; the current one is
// prepended on every call instead.
func withoutSystemEntries(messages []Entry) []Entry {
	out := messages[:0:0]
	for _, e := range messages {
		if e.Role != RoleSystem {
			out = append(out, e)
		}
	}
	return out
}

// trimTranscript drops the oldest user/assistant pairs until at most max
// entries remain
func trimTranscript(messages []Entry, max int) []Entry {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	drop := len(messages) - max
	if drop%2 != 0 {
		drop++
	}
	if drop > len(messages) {
		drop = len(messages)
	}
	return append([]Entry(nil), messages[drop:]...)
}
