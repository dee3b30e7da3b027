package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

type testAnswerer struct {
	reply string
	err   error
	calls [][]Entry
}

func (a *testAnswerer) Answer(ctx context.Context, transcript []Entry) (string, error) {
	a.calls = append(a.calls, append([]Entry(nil), transcript...))
	if a.err != nil {
		return "", a.err
	}
	if a.reply != "" {
		return a.reply, nil
	}
	return fmt.Sprintf("answer %d", len(a.calls)), nil
}

func TestManager_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("first question on empty state", func(t *testing.T) {
		answerer := &testAnswerer{reply: "PCC-3 składa się w 14 dni."}
		m := NewManager(answerer, 0)

		result, err := m.Ask(ctx, State{}, "Kiedy złożyć PCC-3?", "Polish")
		require.NoError(t, err)

		assert.False(t, result.Reset)
		assert.Empty(t, result.Notice)
		assert.Equal(t, "Polish", result.State.Language)
		assert.Equal(t, []Entry{
			{Role: RoleUser, Content: "Kiedy złożyć PCC-3?"},
			{Role: RoleAssistant, Content: "PCC-3 składa się w 14 dni."},
		}, result.State.Messages)

		require.Len(t, answerer.calls, 1)
		assert.Equal(t, Entry{Role: RoleSystem, Content: SystemPrompt("Polish")}, answerer.calls[0][0])
		assert.Len(t, answerer.calls[0], 2)
	})

	t.Run("language change resets before the call", func(t *testing.T) {
		answerer := &testAnswerer{}
		m := NewManager(answerer, 0)
		state := State{
			Messages: []Entry{
				{Role: RoleSystem, Content: SystemPrompt("Polish")},
				{Role: RoleUser, Content: "Pytanie"},
				{Role: RoleAssistant, Content: "Odpowiedź"},
			},
		}

		result, err := m.Ask(ctx, state, "What is PCC-3?", "English")
		require.NoError(t, err)

		assert.True(t, result.Reset)
		assert.Equal(t, ResetNotice, result.Notice)

		require.Len(t, answerer.calls, 1)
		sent := answerer.calls[0]
		require.Len(t, sent, 2)
		assert.Equal(t, SystemPrompt("English"), sent[0].Content)
		assert.Equal(t, Entry{Role: RoleUser, Content: "What is PCC-3?"}, sent[1])

		assert.Len(t, result.State.Messages, 2)
		assert.Equal(t, "English", result.State.Language)
	})

	t.Run("explicit language field drives the reset", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		state := State{
			Language: "Polish",
			Messages: []Entry{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}},
		}

		result, err := m.Ask(ctx, state, "c", "German")
		require.NoError(t, err)
		assert.True(t, result.Reset)
		assert.Len(t, result.State.Messages, 2)
	})

	t.Run("same language grows by two per round", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		state := State{}

		for round := 1; round <= 4; round++ {
			result, err := m.Ask(ctx, state, fmt.Sprintf("question %d", round), "Polish")
			require.NoError(t, err)
			assert.False(t, result.Reset)
			assert.Len(t, result.State.Messages, 2*round)
			state = result.State
		}
	})

	t.Run("language comparison ignores case", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		state := State{Language: "Polish", Messages: []Entry{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}}}

		result, err := m.Ask(ctx, state, "c", "polish")
		require.NoError(t, err)
		assert.False(t, result.Reset)
		assert.Len(t, result.State.Messages, 4)
	})

	t.Run("unparsable system entry never resets", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		state := State{Messages: []Entry{
			{Role: RoleSystem, Content: "You are a tax expert."},
			{Role: RoleUser, Content: "a"},
			{Role: RoleAssistant, Content: "b"},
		}}

		result, err := m.Ask(ctx, state, "c", "English")
		require.NoError(t, err)
		assert.False(t, result.Reset)
		assert.Len(t, result.State.Messages, 4)
		assert.Equal(t, RoleUser, result.State.Messages[0].Role)
	})

	t.Run("user led legacy state never resets", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		state := State{Messages: []Entry{
			{Role: RoleUser, Content: "Answer in English please"},
			{Role: RoleAssistant, Content: "b"},
		}}

		result, err := m.Ask(ctx, state, "c", "Polish")
		require.NoError(t, err)
		assert.False(t, result.Reset)
	})

	t.Run("does not mutate the given state", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 0)
		messages := make([]Entry, 2, 10)
		messages[0] = Entry{Role: RoleUser, Content: "a"}
		messages[1] = Entry{Role: RoleAssistant, Content: "b"}
		state := State{Language: "Polish", Messages: messages}

		_, err := m.Ask(ctx, state, "c", "Polish")
		require.NoError(t, err)
		assert.Len(t, state.Messages, 2)
		assert.Equal(t, "Polish", state.Language)
		assert.Equal(t, Entry{}, messages[:3][2])
	})

	t.Run("transcript cap drops oldest pairs", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 4)
		state := State{}

		for round := 1; round <= 5; round++ {
			result, err := m.Ask(ctx, state, fmt.Sprintf("question %d", round), "Polish")
			require.NoError(t, err)
			state = result.State
		}

		require.Len(t, state.Messages, 4)
		assert.Equal(t, Entry{Role: RoleUser, Content: "question 4"}, state.Messages[0])
		assert.Equal(t, Entry{Role: RoleAssistant, Content: "answer 5"}, state.Messages[3])
	})

	t.Run("cap of one keeps the latest pair", func(t *testing.T) {
		m := NewManager(&testAnswerer{}, 1)
		state := State{}

		for round := 1; round <= 2; round++ {
			result, err := m.Ask(ctx, state, fmt.Sprintf("question %d", round), "Polish")
			require.NoError(t, err)
			state = result.State
		}

		assert.Equal(t, []Entry{
			{Role: RoleUser, Content: "question 2"},
			{Role: RoleAssistant, Content: "answer 2"},
		}, state.Messages)
	})

	t.Run("blank question", func(t *testing.T) {
		answerer := &testAnswerer{}
		m := NewManager(answerer, 0)

		_, err := m.Ask(ctx, State{}, "   ", "Polish")
		assert.True(t, errors.Is(err, commonErrors.ErrEmptyQuestion))
		assert.Empty(t, answerer.calls)
	})

	t.Run("answerer failure", func(t *testing.T) {
		m := NewManager(&testAnswerer{err: errors.New("timeout")}, 0)

		_, err := m.Ask(ctx, State{}, "question", "Polish")
		assert.True(t, errors.Is(err, commonErrors.ErrUpstream))
	})

	t.Run("empty reply", func(t *testing.T) {
		m := NewManager(&testAnswerer{reply: "  "}, 0)

		_, err := m.Ask(ctx, State{}, "question", "Polish")
		assert.True(t, errors.Is(err, commonErrors.ErrUpstream))
	})
}

func TestParseLanguage(t *testing.T) {
	for _, language := range []string{"Polish", "English", "German", "Ukrainian", "Français", "Español"} {
		assert.Equal(t, language, ParseLanguage(SystemPrompt(language)))
	}
	assert.Equal(t, "", ParseLanguage("You are a tax expert."))
	// the first "in " wins, even inside a word
	assert.Equal(t, "limits", ParseLanguage("Stay within limits."))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", DetectLanguage(State{}))
	assert.Equal(t, "English", DetectLanguage(State{Language: "English"}))
	assert.Equal(t, "Polish", DetectLanguage(State{Messages: []Entry{{Role: RoleSystem, Content: SystemPrompt("Polish")}}}))
	assert.Equal(t, "", DetectLanguage(State{Messages: []Entry{{Role: RoleUser, Content: "in English"}}}))
	assert.Equal(t, "Français", DetectLanguage(State{Messages: []Entry{{Role: RoleSystem, Content: SystemPrompt("Français")}}}))
}
