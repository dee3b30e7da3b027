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

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/declaration"
	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

const declarationSortKey = "DECLARATION"

// DynamoDBDeclarationRepository implements the declaration.Repository interface
type DynamoDBDeclarationRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBDeclarationRepository creates a new DynamoDBDeclarationRepository
func NewDynamoDBDeclarationRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBDeclarationRepository {
	return &DynamoDBDeclarationRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// DeclarationDDB is the stored shape of a declaration
type DeclarationDDB struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	Type       string    `dynamodbav:"Type"`
	ID         string    `dynamodbav:"id"`
	XMLContent string    `dynamodbav:"xmlContent"`
	TaxDue     int64     `dynamodbav:"taxDue"`
	CreatedAt  time.Time `dynamodbav:"createdAt"`
}

func declarationKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("DECLARATION#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: declarationSortKey},
	}
}

// CreateDeclaration stores a new declaration. An existing ID is a conflict.
func (r *DynamoDBDeclarationRepository) CreateDeclaration(ctx context.Context, d *declaration.Declaration) error {
	item, err := attributevalue.MarshalMap(DeclarationDDB{
		PK:         fmt.Sprintf("DECLARATION#%s", d.ID),
		SK:         declarationSortKey,
		Type:       "declaration",
		ID:         d.ID,
		XMLContent: d.XMLContent,
		TaxDue:     d.TaxDue,
		CreatedAt:  d.CreatedAt,
	})
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal declaration", err)
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
			return commonErrors.NewConflictError("declaration already exists")
		}
		return commonErrors.NewPersistenceError("failed to store declaration", err)
	}

	return nil
}

// GetDeclaration retrieves a declaration by ID
func (r *DynamoDBDeclarationRepository) GetDeclaration(ctx context.Context, id string) (*declaration.Declaration, error) {
	r.logger.Debug("GetDeclaration", "declarationId", id)

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       declarationKey(id),
	})
	if err != nil {
		return nil, commonErrors.NewPersistenceError("failed to get declaration", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("declaration not found")
	}

	var stored DeclarationDDB
	if err := attributevalue.UnmarshalMap(result.Item, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal declaration", err)
	}

	return &declaration.Declaration{
		ID:         stored.ID,
		XMLContent: stored.XMLContent,
		TaxDue:     stored.TaxDue,
		CreatedAt:  stored.CreatedAt,
	}, nil
}
