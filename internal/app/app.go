package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/handlers"
	"github.com/hirosato/pcc3-assistant/backend/internal/api/middleware"
	envconfig "github.com/hirosato/pcc3-assistant/backend/internal/common/config"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/audit"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/conversation"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/declaration"
	ddbclient "github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/client"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/dynamodb/repository"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/groq"
	"github.com/hirosato/pcc3-assistant/backend/internal/platform/secrets"
)

// Version is reported by the health endpoint
var Version = "dev"

// NewLogger creates the JSON slog logger used across the application
func NewLogger(cfg *envconfig.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// NewZapLogger creates the logger of the recovery middleware
func NewZapLogger(cfg *envconfig.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewHandler wires clients, repositories, services and handlers into one
// API Gateway handler behind the middleware chain
func NewHandler(ctx context.Context, cfg *envconfig.Config, logger *slog.Logger, zapLogger *zap.Logger) (middleware.APIGatewayHandler, error) {
	dbClient, err := ddbclient.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	apiKey, err := resolveAPIKey(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	repos := repository.NewFactory(dbClient, cfg.DynamoDBTableName, logger)

	auditService := audit.NewService(repos.AuditRepository(), logger)
	declarationService := declaration.NewService(repos.DeclarationRepository(), auditService, logger)

	answerer := groq.NewClient(groq.Config{
		APIKey:            apiKey,
		BaseURL:           cfg.GroqBaseURL,
		Model:             cfg.GroqModel,
		MaxTokens:         cfg.GroqMaxTokens,
		Timeout:           cfg.GroqTimeout,
		RequestsPerSecond: cfg.GroqRequestsPerSecond,
	}, logger)
	conversationService := conversation.NewService(
		conversation.NewManager(answerer, cfg.MaxTranscriptMessages),
		repos.SessionRepository(cfg.SessionTTL),
		auditService,
		cfg.DefaultLanguage,
		logger,
	)

	router := handlers.NewRouter(
		handlers.NewDeclarationHandler(declarationService),
		handlers.NewConversationHandler(conversationService),
		handlers.NewHealthHandler(Version),
	)

	return middleware.Chain(router.Route,
		middleware.NewLoggingMiddleware(),
		middleware.NewRecoveryMiddleware(zapLogger),
		middleware.NewSessionMiddleware(cfg.SessionTTL, cfg.IsProd()),
	), nil
}

func resolveAPIKey(ctx context.Context, cfg *envconfig.Config, logger *slog.Logger) (string, error) {
	var secretsClient *secretsmanager.Client
	if cfg.GroqAPIKeySecretID != "" {
		awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		secretsClient = secretsmanager.NewFromConfig(awscfg)
	}

	provider, err := secrets.NewAPIKeyProvider(secretsClient, cfg.GroqAPIKeySecretID, cfg.GroqAPIKey, logger)
	if err != nil {
		return "", err
	}
	apiKey, err := provider.APIKey()
	if err != nil {
		return "", fmt.Errorf("failed to resolve Groq API key: %w", err)
	}
	return apiKey, nil
}
