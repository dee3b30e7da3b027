package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/hirosato/pcc3-assistant/backend/internal/common/utils"
)

const (
	// SessionHeader carries the session id for API clients
	SessionHeader = "X-Session-Id"
	// SessionCookie carries the session id for browsers
	SessionCookie = "pcc3_session"
)

type sessionIDKey struct{}

// SessionIDFromContext returns the session id resolved by SessionMiddleware
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// WithSessionID stores a session id in the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionMiddleware resolves the caller's session id from the header or the
// cookie and issues a new one when neither holds a valid id
type SessionMiddleware struct {
	ttl    time.Duration
	secure bool
	newID  func() string
}

// NewSessionMiddleware creates a new session middleware. Issued cookies live
// for ttl and are marked Secure when secure is set.
func NewSessionMiddleware(ttl time.Duration, secure bool) SessionMiddleware {
	return SessionMiddleware{
		ttl:    ttl,
		secure: secure,
		newID:  func() string { return uuid.New().String() },
	}
}

// Handle handles the session middleware
func (m SessionMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		sessionID, issued := m.resolve(request)
		if issued {
			logger.Debug("Issued new session", "sessionId", sessionID)
		}

		resp, err := next(WithSessionID(ctx, sessionID), logger, request)
		if err != nil {
			return resp, err
		}

		if resp.Headers == nil {
			resp.Headers = make(map[string]string)
		}
		resp.Headers[SessionHeader] = sessionID
		if issued {
			cookie := &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			}
			resp.Headers["Set-Cookie"] = cookie.String()
		}
		return resp, nil
	}
}

func (m SessionMiddleware) resolve(request events.APIGatewayProxyRequest) (string, bool) {
	if id := Header(request, SessionHeader); utils.ValidateUUID(id) == nil {
		return id, false
	}
	if line := Header(request, "Cookie"); line != "" {
		r := http.Request{Header: http.Header{"Cookie": {line}}}
		if c, err := r.Cookie(SessionCookie); err == nil && utils.ValidateUUID(c.Value) == nil {
			return c.Value, false
		}
	}
	return m.newID(), true
}
