package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/conversation"
	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

const sessionSortKey = "TRANSCRIPT"

// DynamoDBSessionRepository implements the conversation.SessionRepository interface
type DynamoDBSessionRepository struct {
	client client.Client
	table  string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewDynamoDBSessionRepository creates a new DynamoDBSessionRepository.
// Stored transcripts expire ttl after their last write.
func NewDynamoDBSessionRepository(client client.Client, table string, ttl time.Duration, logger *slog.Logger) *DynamoDBSessionRepository {
	return &DynamoDBSessionRepository{
		client: client,
		table:  table,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SessionDDB is the stored shape of a transcript
type SessionDDB struct {
	PK        string       `dynamodbav:"PK"`
	SK        string       `dynamodbav:"SK"`
	Type      string       `dynamodbav:"Type"`
	SessionID string       `dynamodbav:"sessionId"`
	Language  string       `dynamodbav:"language"`
	Messages  []MessageDDB `dynamodbav:"messages"`
	UpdatedAt time.Time    `dynamodbav:"updatedAt"`
	ExpiresAt int64        `dynamodbav:"ExpiresAt"` // TTL, epoch seconds
}

// MessageDDB is one transcript entry
type MessageDDB struct {
	Role    string `dynamodbav:"role"`
	Content string `dynamodbav:"content"`
}

func sessionKey(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("SESSION#%s", sessionID)},
		"SK": &types.AttributeValueMemberS{Value: sessionSortKey},
	}
}

// GetState returns the stored transcript, or an empty one when the session
// has none or it has expired
func (r *DynamoDBSessionRepository) GetState(ctx context.Context, sessionID string) (*conversation.State, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            sessionKey(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, commonErrors.NewPersistenceError("failed to get transcript", err)
	}
	if len(result.Item) == 0 {
		return &conversation.State{Messages: []conversation.Entry{}}, nil
	}

	var stored SessionDDB
	if err := attributevalue.UnmarshalMap(result.Item, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal transcript", err)
	}

	// TTL deletion is lazy, expired items can still be read for a while
	if stored.ExpiresAt > 0 && r.now().Unix() >= stored.ExpiresAt {
		r.logger.Debug("Transcript expired", "sessionId", sessionID)
		return &conversation.State{Messages: []conversation.Entry{}}, nil
	}

	state := &conversation.State{
		Language:  stored.Language,
		Messages:  make([]conversation.Entry, 0, len(stored.Messages)),
		UpdatedAt: stored.UpdatedAt,
	}
	for _, m := range stored.Messages {
		state.Messages = append(state.Messages, conversation.Entry{Role: conversation.Role(m.Role), Content: m.Content})
	}
	return state, nil
}

// SaveState replaces the stored transcript
func (r *DynamoDBSessionRepository) SaveState(ctx context.Context, sessionID string, state *conversation.State) error {
	now := r.now()
	stored := SessionDDB{
		PK:        fmt.Sprintf("SESSION#%s", sessionID),
		SK:        sessionSortKey,
		Type:      "session",
		SessionID: sessionID,
		Language:  state.Language,
		Messages:  make([]MessageDDB, 0, len(state.Messages)),
		UpdatedAt: state.UpdatedAt,
		ExpiresAt: now.Add(r.ttl).Unix(),
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	for _, m := range state.Messages {
		stored.Messages = append(stored.Messages, MessageDDB{Role: string(m.Role), Content: m.Content})
	}

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal transcript", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return commonErrors.NewPersistenceError("failed to save transcript", err)
	}

	return nil
}
