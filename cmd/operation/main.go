package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/joho/godotenv"

	envconfig "github.com/hirosato/pcc3-assistant/backend/internal/common/config"
	ddbclient "github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
)

// Example: AWS_PROFILE=pcc3-dev TABLE_NAME=pcc3-dev go run ./cmd/operation create-table
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	ctx := context.Background()

	switch os.Args[1] {
	case "create-table":
		err = createTable(ctx, cfg, logger)
	case "check-connection":
		err = checkConnection(ctx, cfg, logger)
	case "store-groq-key":
		if len(os.Args) < 3 {
			log.Fatal("usage: store-groq-key <api-key>")
		}
		err = storeGroqKey(ctx, cfg, os.Args[2])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: operation <create-table|check-connection|store-groq-key>")
}

// createTable provisions the single table with PK/SK keys and TTL on ExpiresAt
func createTable(ctx context.Context, cfg *envconfig.Config, logger *slog.Logger) error {
	c, err := ddbclient.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, logger)
	if err != nil {
		return err
	}
	raw := c.GetRawClient()

	fmt.Printf("🛠  Creating table %s...\n", cfg.DynamoDBTableName)
	_, err = raw.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(cfg.DynamoDBTableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	switch {
	case errors.As(err, &inUse):
		fmt.Println("ℹ️  Table already exists")
	case err != nil:
		return fmt.Errorf("failed to create table: %w", err)
	default:
		waiter := dynamodb.NewTableExistsWaiter(raw)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.DynamoDBTableName)}, 2*time.Minute); err != nil {
			return fmt.Errorf("table did not become active: %w", err)
		}
	}

	_, err = raw.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(cfg.DynamoDBTableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("ExpiresAt"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		// DynamoDB rejects enabling TTL twice
		logger.Warn("Failed to enable TTL", "error", err)
	}

	fmt.Println("✅ Table is ready")
	return nil
}

func checkConnection(ctx context.Context, cfg *envconfig.Config, logger *slog.Logger) error {
	c, err := ddbclient.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, logger)
	if err != nil {
		return err
	}
	out, err := c.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.DynamoDBTableName)})
	if err != nil {
		return fmt.Errorf("failed to describe table: %w", err)
	}
	fmt.Printf("✅ Connected to %s (status %s)\n", cfg.DynamoDBTableName, out.Table.TableStatus)
	return nil
}

// storeGroqKey creates the secret or adds a new version when it exists
func storeGroqKey(ctx context.Context, cfg *envconfig.Config, apiKey string) error {
	if cfg.GroqAPIKeySecretID == "" {
		return errors.New("GROQ_API_KEY_SECRET_ID is not set")
	}
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}
	sm := secretsmanager.NewFromConfig(awscfg)

	_, err = sm.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(cfg.GroqAPIKeySecretID),
		SecretString: aws.String(apiKey),
		Description:  aws.String("Groq API key for the PCC-3 assistant"),
	})
	var exists *smtypes.ResourceExistsException
	if errors.As(err, &exists) {
		_, err = sm.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
			SecretId:     aws.String(cfg.GroqAPIKeySecretID),
			SecretString: aws.String(apiKey),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	fmt.Printf("✅ Stored Groq API key in %s\n", cfg.GroqAPIKeySecretID)
	return nil
}
