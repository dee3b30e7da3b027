package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// LoggingMiddleware is a middleware for logging requests and responses.
// Bodies are never logged, form submissions carry personal data.
type LoggingMiddleware struct{}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware() LoggingMiddleware {
	return LoggingMiddleware{}
}

// Handle handles the logging middleware
func (m LoggingMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		startTime := time.Now()
		logger = logger.With("requestId", request.RequestContext.RequestID)

		logRequest(request, logger)

		response, err := next(ctx, logger, request)

		logResponse(response, err, time.Since(startTime), logger)

		return response, err
	}
}

// logRequest logs the request
func logRequest(request events.APIGatewayProxyRequest, logger *slog.Logger) {
	logger.Info("REQUEST",
		"method", request.HTTPMethod,
		"path", request.Path,
		"queryParameters", request.QueryStringParameters,
		"headers", maskSensitiveHeaders(request.Headers),
		"bodyBytes", len(request.Body))
}

// logResponse logs the response
func logResponse(response events.APIGatewayProxyResponse, err error, duration time.Duration, logger *slog.Logger) {
	if err != nil {
		logger.Error("ERROR", "error", err)
	}

	logger.Info("RESPONSE",
		"status", response.StatusCode,
		"duration", duration,
		"bodyBytes", len(response.Body),
	)
}

// maskSensitiveHeaders masks sensitive headers
func maskSensitiveHeaders(headers map[string]string) map[string]string {
	maskedHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		maskedHeaders[k] = v
	}

	// List of headers to mask
	sensitiveHeaders := []string{
		"Authorization",
		"X-Api-Key",
		"Cookie",
		SessionHeader,
	}

	for _, header := range sensitiveHeaders {
		for k := range maskedHeaders {
			if strings.EqualFold(k, header) {
				maskedHeaders[k] = "***"
			}
		}
	}

	return maskedHeaders
}
