package repository

import (
	"log/slog"
	"time"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/audit"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/conversation"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/declaration"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances sharing one client and table
type Factory struct {
	client    client.Client
	tableName string
	logger    *slog.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *slog.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// DeclarationRepository returns an implementation of the declaration.Repository interface
func (f *Factory) DeclarationRepository() declaration.Repository {
	return NewDynamoDBDeclarationRepository(f.client, f.tableName, f.logger)
}

// AuditRepository returns an implementation of the audit.Repository interface
func (f *Factory) AuditRepository() audit.Repository {
	return NewDynamoDBAuditRepository(f.client, f.tableName, f.logger)
}

// SessionRepository returns an implementation of the conversation.SessionRepository interface
func (f *Factory) SessionRepository(ttl time.Duration) conversation.SessionRepository {
	return NewDynamoDBSessionRepository(f.client, f.tableName, ttl, f.logger)
}
