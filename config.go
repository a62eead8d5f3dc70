package streambase

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// TokenStoreBackend selects where the session token is persisted.
type TokenStoreBackend string

const (
	TokenStoreFile    TokenStoreBackend = "file"
	TokenStoreKeyring TokenStoreBackend = "keyring"
	TokenStoreMemory  TokenStoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for TokenStoreBackend.
func (b *TokenStoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "keyring", "memory":
		*b = TokenStoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid token store backend: %q (valid options: file, keyring, memory)", v)
	}
}

// Config is the client configuration, loaded from environment variables.
// A .env file in the working directory is honored for local development.
type Config struct {
	// APIBaseURL is the root of the Streambase REST API.
	APIBaseURL string `env:"STREAMBASE_API_URL" envDefault:"http://localhost:8480"`

	// HTTPTimeout bounds every API call.
	HTTPTimeout time.Duration `env:"STREAMBASE_HTTP_TIMEOUT" envDefault:"15s"`

	// PollInterval is the notification poll cadence.
	PollInterval time.Duration `env:"STREAMBASE_POLL_INTERVAL" envDefault:"10s"`

	// TokenStore selects the persistence backend for the session token.
	TokenStore TokenStoreBackend `env:"STREAMBASE_TOKEN_STORE" envDefault:"keyring"`

	// CachePath is the sqlite file backing the offline cache. Empty disables
	// the cache.
	CachePath string `env:"STREAMBASE_CACHE_PATH"`

	// LogLevel sets logging verbosity: debug, info, warn, error.
	LogLevel string `env:"STREAMBASE_LOG_LEVEL" envDefault:"info"`
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.TokenStore == "" {
		c.TokenStore = TokenStoreKeyring
	}
}

// LoadConfig reads configuration from the environment, loading .env first
// when present. A missing .env is not an error.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// OpenTokenStore builds the configured TokenStore implementation.
func (c Config) OpenTokenStore(logger Logger) (TokenStore, error) {
	switch c.TokenStore {
	case TokenStoreKeyring:
		return NewKeyringTokenStore().WithLogger(logger), nil
	case TokenStoreMemory:
		return NewMemoryTokenStore(), nil
	default:
		store, err := NewFileTokenStore()
		if err != nil {
			return nil, err
		}
		return store.WithLogger(logger), nil
	}
}
