package client

import (
	"context"
	"sync"
)

// fakeProvider is an in-memory Provider for tests
type fakeProvider struct {
	mu sync.Mutex

	identity   *Identity
	signUpErr  error
	signInErr  error
	signOutErr error
	reloadErr  error
	resendErr  error

	signUpCalls  int
	signInCalls  int
	signOutCalls int
	reloadCalls  int
	resendCalls  int
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.identity, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.identity, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeProvider) ResendVerification(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resendCalls++
	return f.resendErr
}

func (f *fakeProvider) Reload(ctx context.Context) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloadCalls++
	if f.reloadErr != nil {
		return nil, f.reloadErr
	}
	return f.identity, nil
}

func (f *fakeProvider) setIdentity(identity *Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = identity
}

func (f *fakeProvider) calls() (signUp, signIn, signOut, reload, resend int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signUpCalls, f.signInCalls, f.signOutCalls, f.reloadCalls, f.resendCalls
}

// fakeStore is an in-memory ProfileStore for tests
type fakeStore struct {
	mu sync.Mutex

	profile *Profile
	getErr  error

	getCalls      int
	ensureCalls   int
	completeCalls int
}

func (f *fakeStore) Get(ctx context.Context) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.profile == nil {
		return nil, ErrNoProfile
	}
	clone := *f.profile
	return &clone, nil
}

func (f *fakeStore) Ensure(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	if f.profile == nil {
		f.profile = &Profile{Level: 1, Settings: ProfileSettings{Notifications: true}}
	}
	return nil
}

func (f *fakeStore) CompleteOnboarding(ctx context.Context, draft OnboardingDraft) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.profile == nil {
		f.profile = &Profile{Level: 1, Settings: ProfileSettings{Notifications: true}}
	}
	f.profile.DisplayName = draft.DisplayName
	f.profile.Username = draft.Username
	f.profile.IsOnboardingCompleted = true
	clone := *f.profile
	return &clone, nil
}

func (f *fakeStore) setProfile(p *Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
}
