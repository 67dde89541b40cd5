package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the poller re-checks the verified flag
const DefaultPollInterval = 3 * time.Second

// PollState tags whether the poller is running
type PollState int

const (
	PollIdle PollState = iota
	PollPolling
)

// VerificationPoller re-fetches the identity on a fixed interval while the
// account is signed in but unverified, and flips the session to verified as
// soon as the provider reports it. It stands in for a push channel the
// provider does not offer. There is no retry cap: polling is bounded by the
// verification screen's lifetime, which is what cancels the context.
type VerificationPoller struct {
	provider Provider
	sessions *SessionObserver
	logger   *zap.Logger
	interval time.Duration

	// onVerified runs exactly once per Start, right after the session flips
	onVerified func(ctx context.Context, identity *Identity)

	mu     sync.Mutex
	state  PollState
	cancel context.CancelFunc
}

// NewVerificationPoller creates a poller. interval <= 0 selects the default.
// onVerified may be nil.
func NewVerificationPoller(
	provider Provider,
	sessions *SessionObserver,
	logger *zap.Logger,
	interval time.Duration,
	onVerified func(ctx context.Context, identity *Identity),
) *VerificationPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &VerificationPoller{
		provider:   provider,
		sessions:   sessions,
		logger:     logger,
		interval:   interval,
		onVerified: onVerified,
	}
}

// State reports whether the poller is currently running
func (p *VerificationPoller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start begins polling. A second Start while polling is a no-op.
func (p *VerificationPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.state == PollPolling {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.state = PollPolling
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop cancels the poll loop. Safe to call when idle.
func (p *VerificationPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = PollIdle
}

func (p *VerificationPoller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.state = PollIdle
			p.cancel = nil
			p.mu.Unlock()
			return
		case <-ticker.C:
			identity, err := p.provider.Reload(ctx)
			if err != nil {
				p.logger.Debug("verification poll failed", zap.Error(err))
				continue
			}
			if !identity.EmailVerified {
				continue
			}

			p.sessions.Set(Session{State: StateSignedIn, Identity: identity})
			if p.onVerified != nil {
				p.onVerified(ctx, identity)
			}
			p.Stop()
			return
		}
	}
}
