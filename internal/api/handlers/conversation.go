package handlers

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/middleware"
	"github.com/hirosato/pcc3-assistant/backend/internal/api/response"
	"github.com/hirosato/pcc3-assistant/backend/internal/common/utils"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/conversation"
)

// ConversationHandler handles the tax question endpoints
type ConversationHandler struct {
	service *conversation.Service
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(service *conversation.Service) *ConversationHandler {
	return &ConversationHandler{
		service: service,
	}
}

// AskRequest is the payload of POST /conversation/questions
type AskRequest struct {
	Question string `json:"question"`
	Language string `json:"language,omitempty"`
}

// TranscriptResponse describes a session's transcript
type TranscriptResponse struct {
	SessionID string               `json:"sessionId"`
	Language  string               `json:"language"`
	Messages  []conversation.Entry `json:"messages"`
}

// AskResponse is returned after an answered question
type AskResponse struct {
	TranscriptResponse
	Answer string `json:"answer"`
	Reset  bool   `json:"reset"`
	Notice string `json:"notice,omitempty"`
}

// GetTranscript handles GET /conversation
func (h *ConversationHandler) GetTranscript(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	sessionID := middleware.SessionIDFromContext(ctx)

	state, err := h.service.GetTranscript(ctx, sessionID)
	if err != nil {
		return response.FromError(err, requestID), nil
	}

	language := state.Language
	if language == "" {
		language = h.service.DefaultLanguage()
	}
	return response.OK(TranscriptResponse{
		SessionID: sessionID,
		Language:  language,
		Messages:  nonNil(state.Messages),
	}, requestID), nil
}

// Ask handles POST /conversation/questions
func (h *ConversationHandler) Ask(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	sessionID := middleware.SessionIDFromContext(ctx)

	var req AskRequest
	if err := decodeBody(request, &req, func(values url.Values) {
		req = AskRequest{Question: values.Get("question"), Language: values.Get("language")}
	}); err != nil {
		return response.FromError(err, requestID), nil
	}

	req.Language = strings.TrimSpace(req.Language)
	if req.Language != "" {
		if err := utils.ValidateLanguage(req.Language); err != nil {
			return response.FromError(err, requestID), nil
		}
	}

	result, err := h.service.Ask(ctx, sessionID, req.Question, req.Language)
	if err != nil {
		return response.FromError(err, requestID), nil
	}

	logger.Info("Question answered", "sessionId", sessionID, "reset", result.Reset, "messages", len(result.State.Messages))
	return response.OK(AskResponse{
		TranscriptResponse: TranscriptResponse{
			SessionID: sessionID,
			Language:  result.State.Language,
			Messages:  nonNil(result.State.Messages),
		},
		Answer: result.Answer,
		Reset:  result.Reset,
		Notice: result.Notice,
	}, requestID), nil
}

func nonNil(messages []conversation.Entry) []conversation.Entry {
	if messages == nil {
		return []conversation.Entry{}
	}
	return messages
}
