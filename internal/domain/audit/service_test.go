package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepository struct {
	entries []*Entry
	err     error
}

func (r *testRepository) AppendEntry(ctx context.Context, entry *Entry) error {
	if r.err != nil {
		return r.err
	}
	entry.EntryID = "entry-1"
	r.entries = append(r.entries, entry)
	return nil
}

func TestService_Record(t *testing.T) {
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("appends entry", func(t *testing.T) {
		repo := &testRepository{}
		svc := NewService(repo, slog.Default())
		svc.now = func() time.Time { return fixed }

		svc.Record(context.Background(), "conv-1", "question", "answer")

		require.Len(t, repo.entries, 1)
		assert.Equal(t, "conv-1", repo.entries[0].ConversationID)
		assert.Equal(t, "question", repo.entries[0].UserMessage)
		assert.Equal(t, "answer", repo.entries[0].AssistantMessage)
		assert.Equal(t, fixed, repo.entries[0].Timestamp)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		repo := &testRepository{err: errors.New("boom")}
		svc := NewService(repo, slog.Default())

		assert.NotPanics(t, func() {
			svc.Record(context.Background(), "conv-1", "question", "answer")
		})
		assert.Empty(t, repo.entries)
	})
}
