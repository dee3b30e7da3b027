package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/declaration"
	commonErrors "github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

func TestCreateDeclaration(t *testing.T) {
	createdAt := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stores and reads back", func(t *testing.T) {
		testClient := NewTestClient()
		repo := NewDynamoDBDeclarationRepository(testClient, "test-table", slog.Default())

		d := &declaration.Declaration{ID: "abc", XMLContent: "<Deklaracja/>", TaxDue: 400, CreatedAt: createdAt}
		require.NoError(t, repo.CreateDeclaration(context.Background(), d))

		item, ok := testClient.items["DECLARATION#abc#DECLARATION"]
		require.True(t, ok)
		assert.Equal(t, "declaration", item["Type"].(*types.AttributeValueMemberS).Value)

		got, err := repo.GetDeclaration(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, d, got)
	})

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		repo := NewDynamoDBDeclarationRepository(NewTestClient(), "test-table", slog.Default())
		d := &declaration.Declaration{ID: "abc", XMLContent: "<Deklaracja/>", CreatedAt: createdAt}

		require.NoError(t, repo.CreateDeclaration(context.Background(), d))
		err := repo.CreateDeclaration(context.Background(), d)
		assert.True(t, errors.Is(err, commonErrors.ErrConflict))
	})

	t.Run("guards against overwrite", func(t *testing.T) {
		mock := client.NewMockDynamoDBClient()
		var input *dynamodb.PutItemInput
		mock.PutItemFn = func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			input = params
			return &dynamodb.PutItemOutput{}, nil
		}
		repo := NewDynamoDBDeclarationRepository(mock, "test-table", slog.Default())

		require.NoError(t, repo.CreateDeclaration(context.Background(), &declaration.Declaration{ID: "abc"}))
		require.NotNil(t, input.ConditionExpression)
		assert.Contains(t, *input.ConditionExpression, "attribute_not_exists")
		assert.Contains(t, input.ExpressionAttributeNames, "#0")
		assert.Equal(t, "PK", input.ExpressionAttributeNames["#0"])
		assert.Equal(t, "test-table", aws.ToString(input.TableName))
	})

	t.Run("store failure", func(t *testing.T) {
		mock := client.NewMockDynamoDBClient()
		mock.PutItemFn = func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, errors.New("throttled")
		}
		repo := NewDynamoDBDeclarationRepository(mock, "test-table", slog.Default())

		err := repo.CreateDeclaration(context.Background(), &declaration.Declaration{ID: "abc"})
		assert.True(t, errors.Is(err, commonErrors.ErrPersistence))
	})
}

func TestGetDeclaration(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		repo := NewDynamoDBDeclarationRepository(NewTestClient(), "test-table", slog.Default())

		got, err := repo.GetDeclaration(context.Background(), "missing")
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, commonErrors.ErrNotFound))
	})

	t.Run("nil item from aws", func(t *testing.T) {
		mock := client.NewMockDynamoDBClient()
		repo := NewDynamoDBDeclarationRepository(mock, "test-table", slog.Default())

		_, err := repo.GetDeclaration(context.Background(), "missing")
		assert.True(t, errors.Is(err, commonErrors.ErrNotFound))
	})

	t.Run("read failure", func(t *testing.T) {
		mock := client.NewMockDynamoDBClient()
		mock.GetItemFn = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("unreachable")
		}
		repo := NewDynamoDBDeclarationRepository(mock, "test-table", slog.Default())

		_, err := repo.GetDeclaration(context.Background(), "abc")
		assert.True(t, errors.Is(err, commonErrors.ErrPersistence))
	})
}
