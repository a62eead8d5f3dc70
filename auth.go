package streambase

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SessionState is the auth orchestration state.
type SessionState string

const (
	StateLoggedOut SessionState = "logged_out"
	StateLoggingIn SessionState = "logging_in"
	StateUser      SessionState = "user"
	StateAdmin     SessionState = "admin"
)

// Auther orchestrates login, logout, registration, and profile deletion. It
// owns the session state machine and keeps the SessionStore and TokenStore
// in sync; credential verification is delegated to the AuthAPI collaborator.
type Auther struct {
	api      AuthAPI
	sessions *SessionStore
	tokens   TokenStore
	logger   Logger
	sink     ActivitySink

	pollerSub *Subscription

	mu         sync.Mutex
	state      SessionState
	token      string
	rememberMe bool
}

// NewAuther returns a new Auther in the LoggedOut state. Call Restore before
// evaluating guards so a persisted session is never observed as logged out.
func NewAuther(api AuthAPI, sessions *SessionStore, tokens TokenStore) *Auther {
	if sessions == nil {
		sessions = NewSessionStore()
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Auther{
		api:      api,
		sessions: sessions,
		tokens:   tokens,
		logger:   defLogger{},
		sink:     noopActivitySink{},
		state:    StateLoggedOut,
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (a *Auther) WithActivitySink(sink ActivitySink) *Auther {
	a.sink = normalizeActivitySink(sink)
	return a
}

// WithPoller subscribes the poller to session changes: polling starts when
// the principal becomes a User and stops on any other principal, so logout
// cancels the active handle synchronously.
func (a *Auther) WithPoller(p *Poller) *Auther {
	if a.pollerSub != nil {
		a.pollerSub.Unsubscribe()
		a.pollerSub = nil
	}
	if p == nil {
		return a
	}

	a.pollerSub = a.sessions.Subscribe(func(principal Principal) {
		if principal.IsUser() {
			p.Start(principal.ID)
			a.emit(context.Background(), ActivityEventPollStarted, principal, nil)
			return
		}
		if p.Stop() {
			a.emit(context.Background(), ActivityEventPollStopped, principal, nil)
		}
	})
	return a
}

// Sessions exposes the session store for subscribers (navigation chrome and
// the like).
func (a *Auther) Sessions() *SessionStore {
	return a.sessions
}

// State returns the current orchestration state.
func (a *Auther) State() SessionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Token returns the bearer token of the active session, or "" when logged
// out.
func (a *Auther) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// IsLoggedIn reports whether a regular user session is active. Synchronous
// and side-effect free; safe to call from guards on every navigation.
func (a *Auther) IsLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateUser
}

// IsAdminLoggedIn reports whether an admin session is active. Never true
// together with IsLoggedIn.
func (a *Auther) IsAdminLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateAdmin
}

// Restore seeds the session from the TokenStore. Absent, malformed, and
// expired tokens all leave the Auther logged out; no error escapes. Returns
// the principal in effect afterwards.
func (a *Auther) Restore(ctx context.Context) Principal {
	tok := a.tokens.Load()
	if tok == nil {
		return a.sessions.Principal()
	}

	if tok.Principal.Kind != tok.Kind {
		a.logger.Error("restore: persisted token kind mismatch, discarding")
		a.tokens.Clear()
		return a.sessions.Principal()
	}

	state := StateUser
	if tok.Kind == KindAdmin {
		state = StateAdmin
	}

	a.mu.Lock()
	a.state = state
	a.token = tok.Token
	a.rememberMe = true
	a.mu.Unlock()

	a.sessions.SetPrincipal(tok.Principal)
	a.emit(ctx, ActivityEventRestore, tok.Principal, nil)
	return tok.Principal
}

// Login signs in a regular user. On success the session store holds the
// User principal, the token is persisted when RememberMe is set, and
// notification polling begins. On failure the previous state is kept and a
// typed error is returned.
func (a *Auther) Login(ctx context.Context, payload LoginPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid sign-in form")
	}

	prev, err := a.beginLogin()
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		a.endLogin(prev)
		a.emit(ctx, ActivityEventLoginFailure, NoPrincipal(), map[string]any{
			"email": payload.Email,
			"error": err.Error(),
		})
		return asAuthError(err)
	}

	if res == nil || !res.Principal.IsUser() {
		a.endLogin(prev)
		a.emit(ctx, ActivityEventLoginFailure, NoPrincipal(), map[string]any{
			"email": payload.Email,
			"error": "login response did not carry a user principal",
		})
		return ErrTokenMalformed
	}

	a.establish(StateUser, res, payload.RememberMe)
	a.emit(ctx, ActivityEventLoginSuccess, res.Principal, map[string]any{
		"email": payload.Email,
	})
	return nil
}

// LoginAdmin signs in an admin; admins supply a PIN beyond email/password.
func (a *Auther) LoginAdmin(ctx context.Context, payload AdminLoginPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid admin sign-in form")
	}

	prev, err := a.beginLogin()
	if err != nil {
		return err
	}

	res, err := a.api.LoginAdmin(ctx, payload.Email, payload.Password, payload.PIN)
	if err != nil {
		a.endLogin(prev)
		a.emit(ctx, ActivityEventAdminLoginFailure, NoPrincipal(), map[string]any{
			"email": payload.Email,
			"error": err.Error(),
		})
		return asAuthError(err)
	}

	if res == nil || !res.Principal.IsAdmin() {
		a.endLogin(prev)
		a.emit(ctx, ActivityEventAdminLoginFailure, NoPrincipal(), map[string]any{
			"email": payload.Email,
			"error": "admin login response did not carry an admin principal",
		})
		return ErrTokenMalformed
	}

	a.establish(StateAdmin, res, payload.RememberMe)
	a.emit(ctx, ActivityEventAdminLoginSuccess, res.Principal, map[string]any{
		"email": payload.Email,
	})
	return nil
}

// Logout clears the session store, the persisted token, and (through the
// session subscription) the notification poller, synchronously. Idempotent.
func (a *Auther) Logout(ctx context.Context) {
	a.mu.Lock()
	wasActive := a.state == StateUser || a.state == StateAdmin
	principal := a.sessions.Principal()
	a.state = StateLoggedOut
	a.token = ""
	a.rememberMe = false
	a.mu.Unlock()

	a.sessions.Clear()
	a.tokens.Clear()

	if wasActive {
		a.emit(ctx, ActivityEventLogout, principal, nil)
	}
}

// Register creates an account. It never changes session state: a successful
// registration leaves the caller logged out and an explicit sign-in is still
// required.
func (a *Auther) Register(ctx context.Context, reg Registration) error {
	if err := reg.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration form")
	}

	if err := a.api.Register(ctx, reg); err != nil {
		return asAuthError(err)
	}

	a.emit(ctx, ActivityEventRegister, NoPrincipal(), map[string]any{
		"email": reg.Email,
	})
	return nil
}

// DeleteProfile removes the current account after the service re-verifies
// the password. Success is treated as a logout; failure leaves the session
// unchanged.
func (a *Auther) DeleteProfile(ctx context.Context, password string) error {
	a.mu.Lock()
	token := a.token
	active := a.state == StateUser || a.state == StateAdmin
	principal := a.sessions.Principal()
	a.mu.Unlock()

	if !active {
		return ErrNotSignedIn
	}

	if err := a.api.DeleteProfile(ctx, token, password); err != nil {
		return asAuthError(err)
	}

	a.mu.Lock()
	a.state = StateLoggedOut
	a.token = ""
	a.rememberMe = false
	a.mu.Unlock()

	a.sessions.Clear()
	a.tokens.Clear()
	a.emit(ctx, ActivityEventProfileDeleted, principal, nil)
	return nil
}

func (a *Auther) beginLogin() (SessionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateLoggingIn {
		return a.state, ErrLoginInFlight
	}

	prev := a.state
	a.state = StateLoggingIn
	return prev, nil
}

func (a *Auther) endLogin(prev SessionState) {
	a.mu.Lock()
	a.state = prev
	a.mu.Unlock()
}

func (a *Auther) establish(state SessionState, res *LoginResult, rememberMe bool) {
	a.mu.Lock()
	a.state = state
	a.token = res.Token
	a.rememberMe = rememberMe
	a.mu.Unlock()

	a.tokens.Save(PersistedToken{
		Token:     res.Token,
		Kind:      res.Principal.Kind,
		Principal: res.Principal,
		ExpiresAt: res.ExpiresAt,
	}, rememberMe)

	a.sessions.SetPrincipal(res.Principal)
}

func (a *Auther) emit(ctx context.Context, eventType ActivityEventType, principal Principal, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Principal:  principal,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}
	if err := a.sink.Record(ctx, event); err != nil {
		a.logger.Error("activity sink failed for %s: %v", eventType, err)
	}
}

// asAuthError guarantees the typed-failure contract: rich errors cross the
// boundary untouched, anything else is wrapped as a transient service
// failure.
func asAuthError(err error) error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "service unreachable, please try again").
		WithTextCode(textCodeNetworkFailure)
}
