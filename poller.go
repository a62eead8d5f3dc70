package streambase

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPollInterval is how often notifications are fetched unless
// WithInterval overrides it.
const DefaultPollInterval = 10 * time.Second

// pollFetchRetries bounds the in-tick retry of a failed fetch; the loop
// itself survives and tries again on the next tick.
const pollFetchRetries = 3

// Poller runs the recurring notification fetch for the signed-in user. At
// most one handle is active at a time: Start cancels any previous handle
// before creating the next one. A handle that is never stopped is a leak;
// logout and view teardown both must stop it.
type Poller struct {
	api      NotificationAPI
	handler  func([]Notification)
	interval time.Duration
	logger   Logger

	mu     sync.Mutex
	active *PollHandle
}

// PollHandle is the cancellation handle for one polling loop.
type PollHandle struct {
	userID string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPoller builds a poller delivering fetched batches to handler.
func NewPoller(api NotificationAPI, handler func([]Notification)) *Poller {
	return &Poller{
		api:      api,
		handler:  handler,
		interval: DefaultPollInterval,
		logger:   defLogger{},
	}
}

func (p *Poller) WithInterval(interval time.Duration) *Poller {
	if interval > 0 {
		p.interval = interval
	}
	return p
}

func (p *Poller) WithLogger(logger Logger) *Poller {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Start begins polling notifications for userID, cancelling any previously
// active handle first.
func (p *Poller) Start(userID string) *PollHandle {
	p.mu.Lock()
	prev := p.active
	p.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := &PollHandle{
		userID: userID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	p.mu.Lock()
	p.active = handle
	p.mu.Unlock()

	go p.loop(ctx, handle)
	return handle
}

// Stop cancels the active handle, if any, and reports whether one was
// active.
func (p *Poller) Stop() bool {
	p.mu.Lock()
	handle := p.active
	p.active = nil
	p.mu.Unlock()

	if handle == nil {
		return false
	}
	handle.Stop()
	return true
}

// Active reports whether a polling loop is currently running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil && p.active.Active()
}

func (p *Poller) loop(ctx context.Context, handle *PollHandle) {
	defer close(handle.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Deliver once right away so the badge is fresh on login.
	p.fetch(ctx, handle.userID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, handle.userID)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, userID string) {
	var batch []Notification

	op := func() error {
		var err error
		batch, err = p.api.Fetch(ctx, userID)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), pollFetchRetries),
		ctx,
	)

	if err := backoff.Retry(op, policy); err != nil {
		if ctx.Err() == nil {
			p.logger.Error("notification fetch failed for user %s: %v", userID, err)
		}
		return
	}

	if ctx.Err() != nil {
		return
	}

	if p.handler != nil {
		p.handler(batch)
	}
}

// Stop cancels the loop and waits for it to exit, so no fetch is observed
// after Stop returns. Idempotent.
func (h *PollHandle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

// Active reports whether the loop is still running.
func (h *PollHandle) Active() bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Done is closed when the polling loop has fully exited.
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}
