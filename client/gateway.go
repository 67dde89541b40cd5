package client

import (
	"context"

	"go.uber.org/zap"
)

// Gateway wraps the provider's auth operations. It validates input before any
// network call, maps provider failures into ErrorCategory, and is the only
// writer of the session besides the verification poller.
type Gateway struct {
	provider Provider
	sessions *SessionObserver
	logger   *zap.Logger

	passwordMinLength int
}

// NewGateway creates an auth gateway. minLength <= 0 selects the default
// password policy.
func NewGateway(provider Provider, sessions *SessionObserver, logger *zap.Logger, passwordMinLength int) *Gateway {
	if passwordMinLength <= 0 {
		passwordMinLength = DefaultPasswordMinLength
	}
	return &Gateway{
		provider:          provider,
		sessions:          sessions,
		logger:            logger,
		passwordMinLength: passwordMinLength,
	}
}

// SignUp creates an account. The provider sends the verification mail as part
// of account creation; if that mail fails server-side the account still
// exists, and the UI proceeds to the check-your-email state either way
// because a resend is always available.
func (g *Gateway) SignUp(ctx context.Context, email, password, confirm string) (*Identity, error) {
	if !ValidateEmail(email) {
		return nil, newError(CategoryInvalidEmail, nil)
	}
	if !ValidatePassword(password, g.passwordMinLength) {
		return nil, newError(CategoryWeakPassword, nil)
	}
	if !ValidateConfirmation(password, confirm) {
		return nil, ErrConfirmationMismatch
	}

	identity, err := g.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, categorize(err)
	}

	g.sessions.Set(Session{State: StateSignedIn, Identity: identity})
	return identity, nil
}

// SignIn authenticates. An unverified identity is never allowed to stand: the
// session is forced back to signed-out, a courtesy verification mail is
// requested, and the caller gets CategoryEmailNotVerified.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	if !ValidateEmail(email) {
		return nil, newError(CategoryInvalidEmail, nil)
	}

	identity, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		cErr := categorize(err)
		if cErr.Category == CategoryEmailNotVerified {
			// The provider refused the login itself and already re-sent the
			// verification mail
			g.sessions.Set(Session{State: StateSignedOut})
		}
		return nil, cErr
	}

	if !identity.EmailVerified {
		// Provider let the login through anyway. Undo it and treat it the
		// same as a refusal.
		if resendErr := g.provider.ResendVerification(ctx); resendErr != nil {
			g.logger.Warn("courtesy verification resend failed", zap.Error(resendErr))
		}
		if outErr := g.provider.SignOut(ctx); outErr != nil {
			g.logger.Warn("sign-out after unverified login failed", zap.Error(outErr))
		}
		g.sessions.Set(Session{State: StateSignedOut})
		return nil, newError(CategoryEmailNotVerified, nil)
	}

	g.sessions.Set(Session{State: StateSignedIn, Identity: identity})
	return identity, nil
}

// SignOut is best-effort: the local session is cleared even when the provider
// call fails, so the UI can never get stuck looking signed in.
func (g *Gateway) SignOut(ctx context.Context) {
	if err := g.provider.SignOut(ctx); err != nil {
		g.logger.Warn("provider sign-out failed, clearing session anyway", zap.Error(err))
	}
	g.sessions.Set(Session{State: StateSignedOut})
}

// ResendVerification requests a fresh verification mail. A verified identity
// makes this a silent no-op rather than an error.
func (g *Gateway) ResendVerification(ctx context.Context) error {
	current := g.sessions.Current()
	if current.Identity != nil && current.Identity.EmailVerified {
		return nil
	}

	if err := g.provider.ResendVerification(ctx); err != nil {
		return categorize(err)
	}
	return nil
}

// RestoreSession reloads the current identity at startup and settles the
// session out of StateUnknown.
func (g *Gateway) RestoreSession(ctx context.Context) {
	identity, err := g.provider.Reload(ctx)
	if err != nil {
		g.logger.Debug("no session to restore", zap.Error(err))
		g.sessions.Set(Session{State: StateSignedOut})
		return
	}
	g.sessions.Set(Session{State: StateSignedIn, Identity: identity})
}
