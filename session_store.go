package streambase

import "sync"

// SessionStore owns the current Principal and is the single runtime source
// of truth for session state. Writes notify subscribers synchronously, in
// subscription order, before the write call returns; rapid successive writes
// from one goroutine therefore deliver every intermediate state in order.
type SessionStore struct {
	mu        sync.Mutex
	principal Principal
	subs      []*Subscription
	nextSubID int
}

// Subscription is the handle returned by Subscribe. Unsubscribe is
// idempotent.
type Subscription struct {
	id    int
	store *SessionStore
	fn    func(Principal)
}

func NewSessionStore() *SessionStore {
	return &SessionStore{principal: NoPrincipal()}
}

// Principal returns the current principal. No side effects.
func (s *SessionStore) Principal() Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

// SetPrincipal replaces the current principal and notifies every subscriber
// with the new value before returning.
func (s *SessionStore) SetPrincipal(p Principal) {
	if p.Kind == "" {
		p.Kind = KindNone
	}

	s.mu.Lock()
	s.principal = p
	subs := make([]*Subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(p)
	}
}

// Clear resets the store to the None principal, notifying subscribers.
func (s *SessionStore) Clear() {
	s.SetPrincipal(NoPrincipal())
}

// Subscribe registers fn for every subsequent principal change. fn runs on
// the goroutine performing the write; it must not block and must not call
// back into SetPrincipal.
func (s *SessionStore) Subscribe(fn func(Principal)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	sub := &Subscription{id: s.nextSubID, store: s, fn: fn}
	s.subs = append(s.subs, sub)
	return sub
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.store == nil {
		return
	}

	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, candidate := range s.subs {
		if candidate.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	sub.store = nil
}
