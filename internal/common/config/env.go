package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string
	DynamoDBEndpoint  string // DynamoDB Local, empty in AWS

	// Environment and region info
	Environment string
	Region      string

	// Answering service
	GroqAPIKey            string
	GroqAPIKeySecretID    string
	GroqBaseURL           string
	GroqModel             string
	GroqMaxTokens         int
	GroqTimeout           time.Duration
	GroqRequestsPerSecond float64

	// Conversation
	DefaultLanguage       string
	MaxTranscriptMessages int
	SessionTTL            time.Duration

	LogLevel slog.Level

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	// Required environment variables
	cfg.DynamoDBTableName = os.Getenv("TABLE_NAME")
	if cfg.DynamoDBTableName == "" {
		return nil, errors.New("TABLE_NAME environment variable is required")
	}
	cfg.DynamoDBEndpoint = os.Getenv("DYNAMODB_ENDPOINT")

	// Environment and region info
	cfg.Environment = getEnv("ENVIRONMENT", "dev")
	cfg.Region = getEnv("REGION", "pl")

	// AWS Region
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		// Default AWS regions based on our region code
		switch cfg.Region {
		case "us":
			cfg.AWSRegion = "us-west-2"
		case "eu":
			cfg.AWSRegion = "eu-west-1"
		default:
			cfg.AWSRegion = "eu-central-1"
		}
	}

	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.GroqAPIKeySecretID = os.Getenv("GROQ_API_KEY_SECRET_ID")
	cfg.GroqBaseURL = getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	cfg.GroqModel = getEnv("GROQ_MODEL", "llama3-8b-8192")
	cfg.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", "Polish")

	var err error
	if cfg.GroqMaxTokens, err = getInt("GROQ_MAX_TOKENS", 150); err != nil {
		return nil, err
	}
	if cfg.MaxTranscriptMessages, err = getInt("MAX_TRANSCRIPT_MESSAGES", 40); err != nil {
		return nil, err
	}
	// 0 disables the cap; anything else must hold at least one question and its answer
	if cfg.MaxTranscriptMessages < 0 || cfg.MaxTranscriptMessages == 1 {
		return nil, fmt.Errorf("MAX_TRANSCRIPT_MESSAGES must be 0 or at least 2: %d", cfg.MaxTranscriptMessages)
	}
	if cfg.GroqTimeout, err = getDuration("GROQ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.GroqRequestsPerSecond = 2
	if v := os.Getenv("GROQ_REQUESTS_PER_SECOND"); v != "" {
		cfg.GroqRequestsPerSecond, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.GroqRequestsPerSecond <= 0 {
			return nil, fmt.Errorf("GROQ_REQUESTS_PER_SECOND must be a positive number: %q", v)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	// Check if running in Lambda
	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

// IsProd returns true in the production environment
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer: %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration: %q", key, v)
	}
	return d, nil
}
