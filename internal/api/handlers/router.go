package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/response"
)

// Router dispatches API Gateway requests to handlers by method and path
type Router struct {
	declarations *DeclarationHandler
	conversation *ConversationHandler
	health       *HealthHandler
}

// NewRouter creates a new router
func NewRouter(declarations *DeclarationHandler, conversation *ConversationHandler, health *HealthHandler) *Router {
	return &Router{
		declarations: declarations,
		conversation: conversation,
		health:       health,
	}
}

// Route handles a request
func (r *Router) Route(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	method := request.HTTPMethod

	// Handle CORS preflight
	if method == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	segments := splitPath(request.Path)

	switch {
	case len(segments) == 1 && segments[0] == "health":
		if method != http.MethodGet {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.health.Get(ctx, logger, request)

	case len(segments) == 1 && segments[0] == "declarations":
		if method != http.MethodPost {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.declarations.Create(ctx, logger, request)

	case len(segments) == 2 && segments[0] == "declarations":
		if method != http.MethodGet {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.declarations.Get(ctx, logger, withPathParameter(request, "id", segments[1]))

	case len(segments) == 3 && segments[0] == "declarations" && segments[2] == "download":
		if method != http.MethodGet {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.declarations.Download(ctx, logger, withPathParameter(request, "id", segments[1]))

	case len(segments) == 1 && segments[0] == "conversation":
		if method != http.MethodGet {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.conversation.GetTranscript(ctx, logger, request)

	case len(segments) == 2 && segments[0] == "conversation" && segments[1] == "questions":
		if method != http.MethodPost {
			return response.MethodNotAllowed(requestID), nil
		}
		return r.conversation.Ask(ctx, logger, request)
	}

	return response.NotFound("endpoint not found", requestID), nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func withPathParameter(request events.APIGatewayProxyRequest, key, value string) events.APIGatewayProxyRequest {
	params := make(map[string]string, len(request.PathParameters)+1)
	for k, v := range request.PathParameters {
		params[k] = v
	}
	params[key] = value
	request.PathParameters = params
	return request
}
