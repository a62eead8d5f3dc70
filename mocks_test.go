package streambase_test

import (
	"context"
	"net/url"
	"sync"

	"github.com/darhlilove/streambase"
)

// fakeAuthAPI scripts the external authentication collaborator.
type fakeAuthAPI struct {
	mu sync.Mutex

	loginResult      *streambase.LoginResult
	loginErr         error
	adminLoginResult *streambase.LoginResult
	adminLoginErr    error
	registerErr      error
	deleteErr        error

	loginCalls      int
	adminLoginCalls int
	registerCalls   int
	deleteCalls     int
	lastEmail       string
	lastPIN         string
	lastToken       string
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*streambase.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	f.lastEmail = email
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthAPI) LoginAdmin(ctx context.Context, email, password, pin string) (*streambase.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminLoginCalls++
	f.lastEmail = email
	f.lastPIN = pin
	if f.adminLoginErr != nil {
		return nil, f.adminLoginErr
	}
	return f.adminLoginResult, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg streambase.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	f.lastEmail = reg.Email
	return f.registerErr
}

func (f *fakeAuthAPI) DeleteProfile(ctx context.Context, token, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.lastToken = token
	return f.deleteErr
}

// fakeNotificationAPI records fetches so tests can assert on poller
// behavior.
type fakeNotificationAPI struct {
	mu sync.Mutex

	batch    []streambase.Notification
	fetchErr error

	fetchCalls  int
	lastUserID  string
	fetchSignal chan string
}

func newFakeNotificationAPI() *fakeNotificationAPI {
	return &fakeNotificationAPI{fetchSignal: make(chan string, 64)}
}

func (f *fakeNotificationAPI) Fetch(ctx context.Context, userID string) ([]streambase.Notification, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.lastUserID = userID
	err := f.fetchErr
	batch := f.batch
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	select {
	case f.fetchSignal <- userID:
	default:
	}
	return batch, nil
}

func (f *fakeNotificationAPI) MarkRead(ctx context.Context, id string) error { return nil }

func (f *fakeNotificationAPI) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotificationAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// recordingRouter captures ApplyDecision redirects.
type recordingRouter struct {
	path  string
	query url.Values
	calls int
}

func (r *recordingRouter) Navigate(path string, query url.Values) error {
	r.calls++
	r.path = path
	r.query = query
	return nil
}

// stubPredicates drives guards without a full Auther.
type stubPredicates struct {
	user  bool
	admin bool
}

func (s stubPredicates) IsLoggedIn() bool      { return s.user }
func (s stubPredicates) IsAdminLoggedIn() bool { return s.admin }

// panicPredicates simulates an internal failure during guard evaluation.
type panicPredicates struct{}

func (panicPredicates) IsLoggedIn() bool      { panic("predicate blew up") }
func (panicPredicates) IsAdminLoggedIn() bool { panic("predicate blew up") }

// recordingSink collects activity events.
type recordingSink struct {
	mu     sync.Mutex
	events []streambase.ActivityEvent
}

func (s *recordingSink) Record(ctx context.Context, event streambase.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []streambase.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]streambase.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func userResult(id, name, email, token string) *streambase.LoginResult {
	return &streambase.LoginResult{
		Token:     token,
		Principal: streambase.NewUserPrincipal(id, name, email, []string{"member"}),
	}
}

func adminResult(id, name, email, token string, level int) *streambase.LoginResult {
	return &streambase.LoginResult{
		Token:     token,
		Principal: streambase.NewAdminPrincipal(id, name, email, level),
	}
}
