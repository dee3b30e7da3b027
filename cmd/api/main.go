package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/middleware"
	"github.com/hirosato/pcc3-assistant/backend/internal/app"
	envconfig "github.com/hirosato/pcc3-assistant/backend/internal/common/config"
)

var (
	apiHandler middleware.APIGatewayHandler
	logger     *slog.Logger
)

func init() {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

	logger = app.NewLogger(config)
	slog.SetDefault(logger)

	zapLogger, err := app.NewZapLogger(config)
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}

	apiHandler, err = app.NewHandler(context.Background(), config, logger, zapLogger)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return apiHandler(ctx, logger, request)
}

func main() {
	lambda.Start(handler)
}
