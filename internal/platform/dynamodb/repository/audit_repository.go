package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/audit"
	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

// DynamoDBAuditRepository implements the audit.Repository interface
type DynamoDBAuditRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBAuditRepository creates a new DynamoDBAuditRepository
func NewDynamoDBAuditRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBAuditRepository {
	return &DynamoDBAuditRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// AuditEntryDDB is the stored shape of an audit entry. Entries of one
// conversation share a partition and sort by ULID.
type AuditEntryDDB struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	Type             string    `dynamodbav:"Type"`
	EntryID          string    `dynamodbav:"entryId"`
	ConversationID   string    `dynamodbav:"conversationId"`
	UserMessage      string    `dynamodbav:"userMessage"`
	AssistantMessage string    `dynamodbav:"assistantMessage"`
	Timestamp        time.Time `dynamodbav:"timestamp"`
}

// AppendEntry writes a new audit entry
func (r *DynamoDBAuditRepository) AppendEntry(ctx context.Context, entry *audit.Entry) error {
	if entry.EntryID == "" {
		entry.EntryID = ulid.Make().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(AuditEntryDDB{
		PK:               fmt.Sprintf("CONVERSATION#%s", entry.ConversationID),
		SK:               fmt.Sprintf("MESSAGE#%s", entry.EntryID),
		Type:             "audit_entry",
		EntryID:          entry.EntryID,
		ConversationID:   entry.ConversationID,
		UserMessage:      entry.UserMessage,
		AssistantMessage: entry.AssistantMessage,
		Timestamp:        entry.Timestamp,
	})
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal audit entry", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build expression", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("audit entry already exists")
		}
		return commonErrors.NewPersistenceError("failed to store audit entry", err)
	}

	return nil
}
