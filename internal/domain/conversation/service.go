package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hirosato/pcc3-assistant/backend/internal/common/utils"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/audit"
)

// Service provides the question flow for a session
type Service struct {
	manager         *Manager
	sessions        SessionRepository
	audit           audit.Recorder
	logger          *slog.Logger
	defaultLanguage string
	now             func() time.Time
}

// NewService creates a new conversation service
func NewService(manager *Manager, sessions SessionRepository, recorder audit.Recorder, defaultLanguage string, logger *slog.Logger) *Service {
	return &Service{
		manager:         manager,
		sessions:        sessions,
		audit:           recorder,
		logger:          logger,
		defaultLanguage: defaultLanguage,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Ask answers a question within the session's transcript and stores the
// result. Nothing is stored when the question fails.
func (s *Service) Ask(ctx context.Context, sessionID, question, language string) (*AskResult, error) {
	if err := utils.ValidateRequiredString(sessionID, "session id"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(language) == "" {
		language = s.defaultLanguage
	}

	state, err := s.sessions.GetState(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load transcript", "sessionId", sessionID, "error", err)
		return nil, err
	}

	result, err := s.manager.Ask(ctx, *state, question, language)
	if err != nil {
		s.logger.Warn("Question not answered", "sessionId", sessionID, "error", err)
		return nil, err
	}
	if result.Reset {
		s.logger.Info("Conversation reset after language change", "sessionId", sessionID, "language", language)
	}

	result.State.UpdatedAt = s.now()
	if err := s.sessions.SaveState(ctx, sessionID, &result.State); err != nil {
		s.logger.Error("Failed to save transcript", "sessionId", sessionID, "error", err)
		return nil, err
	}

	s.audit.Record(ctx, sessionID, question, result.Answer)

	return result, nil
}

// GetTranscript returns the session's current state
func (s *Service) GetTranscript(ctx context.Context, sessionID string) (*State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return &State{Messages: []Entry{}}, nil
	}
	state, err := s.sessions.GetState(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load transcript", "sessionId", sessionID, "error", err)
		return nil, err
	}
	return state, nil
}

// DefaultLanguage is used when a question names no language
func (s *Service) DefaultLanguage() string {
	return s.defaultLanguage
}
