package audit

import (
	"context"
	"log/slog"
	"time"
)

// Recorder appends interaction records. Implementations must not fail the
// caller's request.
type Recorder interface {
	Record(ctx context.Context, conversationID, userMessage, assistantMessage string)
}

// Service writes audit entries fire-and-forget
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new audit service
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record appends an entry and logs, rather than returns, any failure
func (s *Service) Record(ctx context.Context, conversationID, userMessage, assistantMessage string) {
	entry := &Entry{
		ConversationID:   conversationID,
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Timestamp:        s.now(),
	}
	if err := s.repo.AppendEntry(ctx, entry); err != nil {
		s.logger.Error("Failed to save audit entry", "conversationId", conversationID, "error", err)
		return
	}
	s.logger.Info("Audit entry saved", "conversationId", conversationID, "entryId", entry.EntryID)
}
