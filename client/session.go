package client

import "sync"

// SessionState tags the coarse authentication state
type SessionState int

const (
	// StateUnknown is the startup state, before the first real notification.
	// Consumers render a splash for it instead of flashing the login screen.
	StateUnknown SessionState = iota
	StateSignedOut
	StateSignedIn
)

// Session is the single current-session value shared across the app. Each
// notification carries a complete Session; consumers replace, never merge.
type Session struct {
	State    SessionState
	Identity *Identity
}

// IsAuthenticated is true only for a verified signed-in identity
func (s Session) IsAuthenticated() bool {
	return s.State == StateSignedIn && s.Identity != nil && s.Identity.EmailVerified
}

type subscriber struct {
	id int
	fn func(Session)
}

// SessionObserver owns the Session. It has exactly one writer (the gateway
// and poller call Set) and any number of subscribers. Notifications are
// delivered in Set order, one at a time.
type SessionObserver struct {
	mu      sync.Mutex
	current Session
	subs    []subscriber
	nextID  int

	// serializes delivery so a slow subscriber cannot interleave updates
	notifyMu sync.Mutex
}

// NewSessionObserver starts in StateUnknown
func NewSessionObserver() *SessionObserver {
	return &SessionObserver{
		current: Session{State: StateUnknown},
	}
}

// Current returns the latest session value
func (o *SessionObserver) Current() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Subscribe registers fn and immediately delivers the current session so the
// subscriber never misses the startup state. The returned function removes
// the subscription; callers must invoke it on teardown.
func (o *SessionObserver) Subscribe(fn func(Session)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscriber{id: id, fn: fn})
	current := o.current
	o.mu.Unlock()

	o.notifyMu.Lock()
	fn(current)
	o.notifyMu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i], o.subs[i+1:]...)
				break
			}
		}
	}
}

// Set replaces the session and notifies every subscriber in registration
// order. Callbacks must not call Set reentrantly.
func (o *SessionObserver) Set(session Session) {
	o.mu.Lock()
	o.current = session
	snapshot := make([]subscriber, len(o.subs))
	copy(snapshot, o.subs)
	o.mu.Unlock()

	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	for _, s := range snapshot {
		s.fn(session)
	}
}
