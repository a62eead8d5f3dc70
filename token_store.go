package streambase

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"
)

const (
	tokenFileName  = "session.json"
	keyringService = "streambase"
	keyringKey     = "session-token"
)

// PersistedToken is the durable snapshot of a session: the bearer token plus
// the principal it authenticates, so Restore can rebuild the session without
// a network round trip. A store holds at most one of these; saving replaces
// whatever kind was there before.
type PersistedToken struct {
	Token     string        `json:"token"`
	Kind      PrincipalKind `json:"kind"`
	Principal Principal     `json:"principal"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
	SavedAt   time.Time     `json:"saved_at"`
}

// TokenStore persists the session token between runs.
//
// Save is best-effort: storage failures are logged and swallowed because the
// in-memory session remains authoritative for the process lifetime. With
// rememberMe false the durable slot is cleared instead of written, so a
// session-only login never leaves a stale token behind.
//
// Load returns nil for absent, malformed, and expired tokens alike; it never
// returns an error and never panics on corrupt data.
//
// Clear is idempotent.
type TokenStore interface {
	Save(tok PersistedToken, rememberMe bool)
	Load() *PersistedToken
	Clear()
}

// tokenUsable rejects expired and malformed tokens. JWTs are inspected for
// their exp claim without signature verification (the client holds no keys);
// opaque tokens rely on the stored ExpiresAt.
func tokenUsable(tok *PersistedToken) bool {
	if tok == nil || tok.Token == "" {
		return false
	}
	if tok.Kind != KindUser && tok.Kind != KindAdmin {
		return false
	}
	if tok.ExpiresAt != nil && !tok.ExpiresAt.After(time.Now()) {
		return false
	}

	if strings.Count(tok.Token, ".") == 2 {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tok.Token, claims); err != nil {
			return false
		}
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return false
		}
		if exp != nil && !exp.Time.After(time.Now()) {
			return false
		}
	}

	return true
}

func decodePersistedToken(data []byte) *PersistedToken {
	tok := &PersistedToken{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil
	}
	if !tokenUsable(tok) {
		return nil
	}
	return tok
}

// FileTokenStore keeps the token as JSON under the user config directory.
type FileTokenStore struct {
	path   string
	logger Logger
}

// NewFileTokenStore builds a store writing to
// <user-config-dir>/streambase/session.json.
func NewFileTokenStore() (*FileTokenStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileTokenStoreAt(filepath.Join(base, "streambase", tokenFileName)), nil
}

// NewFileTokenStoreAt builds a store writing to an explicit path.
func NewFileTokenStoreAt(path string) *FileTokenStore {
	return &FileTokenStore{path: path, logger: defLogger{}}
}

func (s *FileTokenStore) WithLogger(logger Logger) *FileTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *FileTokenStore) Save(tok PersistedToken, rememberMe bool) {
	if !rememberMe {
		s.Clear()
		return
	}

	if tok.SavedAt.IsZero() {
		tok.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		s.logger.Error("token store: encode failed: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Error("token store: %v", err)
		return
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Error("token store: write failed: %v", err)
	}
}

func (s *FileTokenStore) Load() *PersistedToken {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("token store: read failed: %v", err)
		}
		return nil
	}
	return decodePersistedToken(data)
}

func (s *FileTokenStore) Clear() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("token store: clear failed: %v", err)
	}
}

// KeyringTokenStore keeps the token in the OS keychain/credential manager.
type KeyringTokenStore struct {
	service string
	logger  Logger
}

func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{service: keyringService, logger: defLogger{}}
}

func (s *KeyringTokenStore) WithLogger(logger Logger) *KeyringTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *KeyringTokenStore) Save(tok PersistedToken, rememberMe bool) {
	if !rememberMe {
		s.Clear()
		return
	}

	if tok.SavedAt.IsZero() {
		tok.SavedAt = time.Now()
	}

	data, err := json.Marshal(tok)
	if err != nil {
		s.logger.Error("keyring token store: encode failed: %v", err)
		return
	}

	if err := keyring.Set(s.service, keyringKey, string(data)); err != nil {
		s.logger.Error("keyring token store: save failed: %v", err)
	}
}

func (s *KeyringTokenStore) Load() *PersistedToken {
	secret, err := keyring.Get(s.service, keyringKey)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			s.logger.Debug("keyring token store: load failed: %v", err)
		}
		return nil
	}
	return decodePersistedToken([]byte(secret))
}

func (s *KeyringTokenStore) Clear() {
	if err := keyring.Delete(s.service, keyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		s.logger.Error("keyring token store: clear failed: %v", err)
	}
}

// MemoryTokenStore is a process-local store for tests and session-only runs.
type MemoryTokenStore struct {
	tok *PersistedToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(tok PersistedToken, rememberMe bool) {
	if !rememberMe {
		s.tok = nil
		return
	}
	if tok.SavedAt.IsZero() {
		tok.SavedAt = time.Now()
	}
	s.tok = &tok
}

func (s *MemoryTokenStore) Load() *PersistedToken {
	if s.tok == nil {
		return nil
	}
	copied := *s.tok
	if !tokenUsable(&copied) {
		return nil
	}
	return &copied
}

func (s *MemoryTokenStore) Clear() {
	s.tok = nil
}
