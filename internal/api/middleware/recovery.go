package middleware

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/response"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

// RecoveryMiddleware is the top-level fallback. It turns panics and errors
// that escaped the handlers into error responses.
type RecoveryMiddleware struct {
	log *zap.Logger
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(log *zap.Logger) RecoveryMiddleware {
	return RecoveryMiddleware{log: log}
}

// Handle handles the recovery middleware
func (m RecoveryMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		requestID := request.RequestContext.RequestID

		defer func() {
			if r := recover(); r != nil {
				m.log.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("requestId", requestID),
					zap.String("path", request.Path),
					zap.Stack("stack"))
				resp, err = response.Fallback(requestID), nil
			}
		}()

		resp, err = next(ctx, logger, request)
		if err == nil {
			return resp, nil
		}

		var appErr errors.AppError
		if stderrors.As(err, &appErr) {
			m.log.Warn("Unhandled application error",
				zap.String("code", appErr.Code),
				zap.String("requestId", requestID),
				zap.Error(err))
			return response.Error(appErr, requestID), nil
		}

		m.log.Error("Unhandled error",
			zap.String("requestId", requestID),
			zap.String("path", request.Path),
			zap.Error(err))
		return response.Fallback(requestID), nil
	}
}
