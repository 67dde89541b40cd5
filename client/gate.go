package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Route is the top-level destination the gate selects from the session
type Route int

const (
	// RouteSplash renders nothing while the session is still unknown
	RouteSplash Route = iota
	RouteSignIn
	RouteVerifyEmail
	RouteOnboarding
	RouteHome
)

func (r Route) String() string {
	switch r {
	case RouteSplash:
		return "splash"
	case RouteSignIn:
		return "sign-in"
	case RouteVerifyEmail:
		return "verify-email"
	case RouteOnboarding:
		return "onboarding"
	case RouteHome:
		return "home"
	default:
		return "unknown"
	}
}

// NavigationGate derives the active route from the session. It re-evaluates
// on every session change, emits only on actual route changes, and performs
// at most one profile read per transition into the verified state.
type NavigationGate struct {
	store    ProfileStore
	sessions *SessionObserver
	logger   *zap.Logger
	navigate func(Route)

	mu    sync.Mutex
	ctx   context.Context
	route Route

	// one profile read per verified uid; Invalidate clears it
	checkedUID   string
	hasOnboarded bool

	unsubscribe func()
}

// NewNavigationGate creates the gate. navigate is invoked with each new
// route; it must be fast and must not call back into the gate.
func NewNavigationGate(store ProfileStore, sessions *SessionObserver, logger *zap.Logger, navigate func(Route)) *NavigationGate {
	return &NavigationGate{
		store:    store,
		sessions: sessions,
		logger:   logger,
		navigate: navigate,
		route:    RouteSplash,
	}
}

// Start subscribes to session changes. ctx bounds the profile reads the gate
// performs while deciding routes.
func (g *NavigationGate) Start(ctx context.Context) {
	g.mu.Lock()
	g.ctx = ctx
	g.mu.Unlock()
	g.unsubscribe = g.sessions.Subscribe(g.onSession)
}

// Stop unsubscribes; the gate emits nothing afterwards
func (g *NavigationGate) Stop() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

// Route returns the current route
func (g *NavigationGate) Route() Route {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.route
}

// Invalidate forgets the cached onboarding check so the next evaluation
// re-reads the profile. Call it after onboarding completes.
func (g *NavigationGate) Invalidate() {
	g.mu.Lock()
	g.checkedUID = ""
	g.hasOnboarded = false
	g.mu.Unlock()
}

// Recheck re-derives the route from the current session, re-reading the
// profile if the cache was invalidated
func (g *NavigationGate) Recheck() {
	g.onSession(g.sessions.Current())
}

func (g *NavigationGate) onSession(s Session) {
	g.setRoute(g.deriveRoute(s))
}

func (g *NavigationGate) deriveRoute(s Session) Route {
	switch {
	case s.State == StateUnknown:
		return RouteSplash
	case s.State == StateSignedOut || s.Identity == nil:
		return RouteSignIn
	case !s.Identity.EmailVerified:
		return RouteVerifyEmail
	}

	if g.onboardingCompleted(s.Identity.UID) {
		return RouteHome
	}
	return RouteOnboarding
}

// onboardingCompleted reads the profile once per verified uid and caches the
// answer until the session changes identity or Invalidate is called. A
// missing profile counts as not onboarded; a read failure conservatively
// keeps the user on onboarding rather than guessing them into the shell.
func (g *NavigationGate) onboardingCompleted(uid string) bool {
	g.mu.Lock()
	if g.checkedUID == uid {
		done := g.hasOnboarded
		g.mu.Unlock()
		return done
	}
	ctx := g.ctx
	g.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	done := false
	profile, err := g.store.Get(ctx)
	switch {
	case err == nil:
		done = profile.IsOnboardingCompleted
	case errors.Is(err, ErrNoProfile):
		done = false
	default:
		// Not cached: the next evaluation retries the read
		g.logger.Warn("profile read failed, gating to onboarding", zap.Error(err))
		return false
	}

	g.mu.Lock()
	g.checkedUID = uid
	g.hasOnboarded = done
	g.mu.Unlock()
	return done
}

func (g *NavigationGate) setRoute(route Route) {
	g.mu.Lock()
	if route == g.route {
		g.mu.Unlock()
		return
	}
	g.route = route
	g.mu.Unlock()

	g.logger.Debug("route changed", zap.Stringer("route", route))
	if g.navigate != nil {
		g.navigate(route)
	}
}
