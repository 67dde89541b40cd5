package client

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultPracticeFrequency is preselected in the wizard
const DefaultPracticeFrequency = 3

// PracticeFrequencies are the days-per-week choices the wizard offers
var PracticeFrequencies = []int{1, 2, 3, 5, 7}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Wizard step errors are user-facing validation results, not provider errors
var (
	ErrDisplayNameTooShort = errors.New("display name must be at least 2 characters")
	ErrUsernameInvalid     = errors.New("username must be at least 3 characters and contain only letters, numbers and underscores")
	ErrFrequencyInvalid    = errors.New("practice frequency must be one of 1, 2, 3, 5 or 7")
	ErrWrongStep           = errors.New("wizard step out of order")
	// ErrNoIdentity signals a routing bug: the onboarding flow is only
	// reachable while signed in
	ErrNoIdentity = errors.New("onboarding completed with no active identity")
)

// OnboardingDraft accumulates the wizard's fields in memory. Nothing is
// persisted until Complete succeeds; abandoning the flow leaks no partial
// state into the profile.
type OnboardingDraft struct {
	DisplayName       string `json:"display_name"`
	Username          string `json:"username"`
	PracticeFrequency int    `json:"practice_frequency"`
	IsCompleted       bool   `json:"-"`
}

const (
	stepIdentity = iota
	stepFrequency
	stepDone
)

// OnboardingCoordinator drives the fixed two-step wizard: profile identity
// first, practice frequency second, then a single merge write. The draft
// resets whenever the session's identity changes.
type OnboardingCoordinator struct {
	store    ProfileStore
	sessions *SessionObserver
	logger   *zap.Logger

	mu          sync.Mutex
	draft       OnboardingDraft
	step        int
	currentUID  string
	unsubscribe func()
}

// NewOnboardingCoordinator creates the coordinator and subscribes it to
// session changes. Call Close when the flow's owner is torn down.
func NewOnboardingCoordinator(store ProfileStore, sessions *SessionObserver, logger *zap.Logger) *OnboardingCoordinator {
	c := &OnboardingCoordinator{
		store:    store,
		sessions: sessions,
		logger:   logger,
		draft:    OnboardingDraft{PracticeFrequency: DefaultPracticeFrequency},
	}
	c.unsubscribe = sessions.Subscribe(c.onSession)
	return c
}

// Close unsubscribes from session changes
func (c *OnboardingCoordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *OnboardingCoordinator) onSession(s Session) {
	uid := ""
	if s.Identity != nil {
		uid = s.Identity.UID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if uid != c.currentUID {
		c.currentUID = uid
		c.reset()
	}
}

// caller holds c.mu
func (c *OnboardingCoordinator) reset() {
	c.draft = OnboardingDraft{PracticeFrequency: DefaultPracticeFrequency}
	c.step = stepIdentity
}

// Draft returns a copy of the in-memory draft
func (c *OnboardingCoordinator) Draft() OnboardingDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Step returns the zero-based current wizard step
func (c *OnboardingCoordinator) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// SubmitIdentity validates step one and advances. A failed validation leaves
// the step unchanged.
func (c *OnboardingCoordinator) SubmitIdentity(displayName, username string) error {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) < 2 {
		return ErrDisplayNameTooShort
	}
	if len(username) < 3 || !usernameRegex.MatchString(username) {
		return ErrUsernameInvalid
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != stepIdentity {
		return ErrWrongStep
	}
	c.draft.DisplayName = displayName
	c.draft.Username = username
	c.step = stepFrequency
	return nil
}

// SelectFrequency validates step two's choice and stores it in the draft
func (c *OnboardingCoordinator) SelectFrequency(frequency int) error {
	valid := false
	for _, f := range PracticeFrequencies {
		if f == frequency {
			valid = true
			break
		}
	}
	if !valid {
		return ErrFrequencyInvalid
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != stepFrequency {
		return ErrWrongStep
	}
	c.draft.PracticeFrequency = frequency
	return nil
}

// Complete performs the single persistence write. It requires an active
// identity; reaching here without one is a routing bug and is logged, not
// shown to the user. Retrying after a failure is safe: the write is a merge
// and the draft survives until it succeeds.
func (c *OnboardingCoordinator) Complete(ctx context.Context) (*Profile, error) {
	session := c.sessions.Current()
	if session.Identity == nil {
		c.logger.Error("onboarding completion without identity")
		return nil, ErrNoIdentity
	}

	c.mu.Lock()
	if c.step != stepFrequency && c.step != stepDone {
		c.mu.Unlock()
		return nil, ErrWrongStep
	}
	draft := c.draft
	c.mu.Unlock()

	profile, err := c.store.CompleteOnboarding(ctx, draft)
	if err != nil {
		return nil, categorize(err)
	}

	c.mu.Lock()
	c.draft.IsCompleted = true
	c.step = stepDone
	c.mu.Unlock()

	return profile, nil
}
