package acceptance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/heapsdsa/heapsauth/client"
)

// TestClientLifecycle drives the SDK against the running service the way the
// app does: sign up, get gated on verification, verify, poll until the session
// flips, complete onboarding, land on home.
func (s *Suite) TestClientLifecycle() {
	ctx := context.Background()
	logger := zap.NewNop()

	httpClient := client.NewHTTPClient(s.BaseURL, logger)
	sessions := client.NewSessionObserver()
	gateway := client.NewGateway(httpClient, sessions, logger, 6)

	var mu sync.Mutex
	var routes []client.Route
	gate := client.NewNavigationGate(httpClient, sessions, logger, func(r client.Route) {
		mu.Lock()
		routes = append(routes, r)
		mu.Unlock()
	})
	gate.Start(ctx)
	defer gate.Stop()

	// Cold start with no stored session
	gateway.RestoreSession(ctx)
	s.Equal(client.RouteSignIn, gate.Route())

	// Registration succeeds but leaves the account unverified
	email := fmt.Sprintf("lifecycle-%d@example.com", time.Now().UnixNano())
	identity, err := gateway.SignUp(ctx, email, "password123", "password123")
	s.Require().NoError(err)
	s.False(identity.EmailVerified)
	s.Equal(client.RouteVerifyEmail, gate.Route())

	// The poller watches for the out-of-band verification
	verified := make(chan struct{})
	poller := client.NewVerificationPoller(httpClient, sessions, logger, 20*time.Millisecond,
		func(ctx context.Context, identity *client.Identity) {
			close(verified)
		})
	poller.Start(ctx)
	defer poller.Stop()

	// The user clicks the mail link
	token := s.Publisher.LastVerificationToken()
	s.Require().NotEmpty(token)
	s.Require().NoError(httpClient.VerifyEmail(ctx, token))

	select {
	case <-verified:
	case <-time.After(5 * time.Second):
		s.FailNow("poller did not observe the verification")
	}
	s.True(sessions.Current().Identity.EmailVerified)

	// Verified but not onboarded
	gate.Recheck()
	s.Equal(client.RouteOnboarding, gate.Route())

	// The two-step wizard ends in a single write
	coordinator := client.NewOnboardingCoordinator(httpClient, sessions, logger)
	defer coordinator.Close()
	s.Require().NoError(coordinator.SubmitIdentity("Lifecycle Tester", "lifecycle_t"))
	s.Require().NoError(coordinator.SelectFrequency(5))
	profile, err := coordinator.Complete(ctx)
	s.Require().NoError(err)
	s.True(profile.IsOnboardingCompleted)
	s.Equal("Practice 5 times a week", profile.CurrentGoal)

	gate.Invalidate()
	gate.Recheck()
	s.Equal(client.RouteHome, gate.Route())

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]client.Route{
		client.RouteSignIn,
		client.RouteVerifyEmail,
		client.RouteOnboarding,
		client.RouteHome,
	}, routes)
}

// TestClientUnverifiedSignInRefused checks the SDK surfaces the verification
// gate as a category and that the provider pushed a courtesy mail.
func (s *Suite) TestClientUnverifiedSignInRefused() {
	ctx := context.Background()
	logger := zap.NewNop()

	httpClient := client.NewHTTPClient(s.BaseURL, logger)
	sessions := client.NewSessionObserver()
	gateway := client.NewGateway(httpClient, sessions, logger, 6)

	email := fmt.Sprintf("refused-%d@example.com", time.Now().UnixNano())
	_, err := gateway.SignUp(ctx, email, "password123", "password123")
	s.Require().NoError(err)

	// A second client signs in before verifying
	freshClient := client.NewHTTPClient(s.BaseURL, logger)
	freshSessions := client.NewSessionObserver()
	freshGateway := client.NewGateway(freshClient, freshSessions, logger, 6)

	_, err = freshGateway.SignIn(ctx, email, "password123")
	s.Require().Error(err)
	s.Equal(client.CategoryEmailNotVerified, client.CategoryOf(err))
	s.Equal(client.StateSignedOut, freshSessions.Current().State)

	// Registration mail plus the refusal's courtesy resend
	s.GreaterOrEqual(len(s.Publisher.Events("auth.verification.requested")), 2)
}

// TestClientCredentialErrorsCollapse checks unknown-account and wrong-password
// produce the same category through the SDK.
func (s *Suite) TestClientCredentialErrorsCollapse() {
	ctx := context.Background()
	logger := zap.NewNop()

	httpClient := client.NewHTTPClient(s.BaseURL, logger)
	sessions := client.NewSessionObserver()
	gateway := client.NewGateway(httpClient, sessions, logger, 6)

	_, err := gateway.SignIn(ctx, "nobody@example.com", "password123")
	s.Require().Error(err)
	s.Equal(client.CategoryInvalidCredentials, client.CategoryOf(err))

	email := fmt.Sprintf("collapse-%d@example.com", time.Now().UnixNano())
	_, err = gateway.SignUp(ctx, email, "password123", "password123")
	s.Require().NoError(err)

	_, err = gateway.SignIn(ctx, email, "wrong-password")
	s.Require().Error(err)
	s.Equal(client.CategoryInvalidCredentials, client.CategoryOf(err))
}
