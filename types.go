package streambase

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// AuthAPI is the external authentication collaborator. Credential
// verification happens on the other side of this interface; the session core
// only orchestrates the outcome.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	LoginAdmin(ctx context.Context, email, password, pin string) (*LoginResult, error)
	Register(ctx context.Context, reg Registration) error
	DeleteProfile(ctx context.Context, token, password string) error
}

// NotificationAPI is the external notification collaborator consumed by the
// Poller.
type NotificationAPI interface {
	Fetch(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Router abstracts the embedding application's navigation. Guards return
// decisions; ApplyDecision performs the redirect side effect through this
// interface.
type Router interface {
	Navigate(path string, query url.Values) error
}

// LoginResult is the successful outcome of a login call: the bearer token
// plus the principal the server authenticated.
type LoginResult struct {
	Token     string     `json:"token"`
	Principal Principal  `json:"principal"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Notification is a single per-user notification as served by the API.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Predicates is the read surface guards evaluate. Implemented by Auther;
// implementations must be synchronous and side-effect free.
type Predicates interface {
	IsLoggedIn() bool
	IsAdminLoggedIn() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] STREAMBASE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] STREAMBASE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] STREAMBASE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
