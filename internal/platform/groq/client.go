package groq

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/conversation"
)

// ErrNoChoices is returned when a completion carries no reply
var ErrNoChoices = errors.New("completion returned no choices")

// Config holds the answering-service settings
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client answers transcripts through Groq's OpenAI-compatible chat API
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient creates a new Groq client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// Answer sends the transcript as chat messages and returns the trimmed reply
func (c *Client) Answer(ctx context.Context, transcript []conversation.Entry) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, e := range transcript {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(e.Role),
			Content: e.Content,
		})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		c.logger.Error("Chat completion failed", "model", c.model, "duration", time.Since(start), "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	c.logger.Info("Chat completion received",
		"model", c.model,
		"duration", time.Since(start),
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens,
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
