package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
)

// secretSource is the part of secretcache.Cache the provider reads through
type secretSource interface {
	GetSecretString(secretID string) (string, error)
}

// APIKeyProvider resolves the answering-service API key. A configured
// secret ID is read through Secrets Manager; otherwise the plain key is used.
type APIKeyProvider struct {
	source   secretSource
	secretID string
	plainKey string
	logger   *slog.Logger
}

// NewAPIKeyProvider creates a provider. secretsClient may be nil when no
// secret ID is configured.
func NewAPIKeyProvider(secretsClient *secretsmanager.Client, secretID, plainKey string, logger *slog.Logger) (*APIKeyProvider, error) {
	p := &APIKeyProvider{
		secretID: secretID,
		plainKey: plainKey,
		logger:   logger,
	}
	if secretID == "" {
		return p, nil
	}

	cache, err := secretcache.New(
		func(c *secretcache.Cache) {
			c.Client = secretsClient
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret cache: %w", err)
	}
	p.source = cache
	return p, nil
}

// APIKey returns the key, preferring the secret over the plain value
func (p *APIKeyProvider) APIKey() (string, error) {
	if p.source != nil {
		key, err := p.source.GetSecretString(p.secretID)
		if err != nil {
			return "", fmt.Errorf("failed to read secret %s: %w", p.secretID, err)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return "", fmt.Errorf("secret %s is empty", p.secretID)
		}
		p.logger.Debug("API key loaded from Secrets Manager", "secretId", p.secretID)
		return key, nil
	}

	if p.plainKey == "" {
		return "", errors.New("no API key configured")
	}
	return p.plainKey, nil
}
