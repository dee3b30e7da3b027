package secrets

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource struct {
	values map[string]string
	err    error
}

func (s *testSource) GetSecretString(secretID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[secretID], nil
}

func TestAPIKeyProvider(t *testing.T) {
	t.Run("plain key without secret id", func(t *testing.T) {
		p, err := NewAPIKeyProvider(nil, "", "gsk_plain", slog.Default())
		require.NoError(t, err)

		key, err := p.APIKey()
		require.NoError(t, err)
		assert.Equal(t, "gsk_plain", key)
	})

	t.Run("nothing configured", func(t *testing.T) {
		p, err := NewAPIKeyProvider(nil, "", "", slog.Default())
		require.NoError(t, err)

		_, err = p.APIKey()
		assert.Error(t, err)
	})

	t.Run("secret wins over plain key", func(t *testing.T) {
		p := &APIKeyProvider{
			source:   &testSource{values: map[string]string{"pcc3/groq": " gsk_secret\n"}},
			secretID: "pcc3/groq",
			plainKey: "gsk_plain",
			logger:   slog.Default(),
		}

		key, err := p.APIKey()
		require.NoError(t, err)
		assert.Equal(t, "gsk_secret", key)
	})

	t.Run("secret read failure", func(t *testing.T) {
		p := &APIKeyProvider{
			source:   &testSource{err: errors.New("access denied")},
			secretID: "pcc3/groq",
			logger:   slog.Default(),
		}

		_, err := p.APIKey()
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		p := &APIKeyProvider{
			source:   &testSource{values: map[string]string{}},
			secretID: "pcc3/groq",
			logger:   slog.Default(),
		}

		_, err := p.APIKey()
		assert.Error(t, err)
	})
}
