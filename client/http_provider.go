package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultHTTPTimeout = 15 * time.Second

// HTTPClient talks to the heapsauth service. It implements both Provider and
// ProfileStore and holds the session tokens for the signed-in account.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	email        string
}

var (
	_ Provider     = (*HTTPClient)(nil)
	_ ProfileStore = (*HTTPClient)(nil)
)

// NewHTTPClient creates a client for the service at baseURL
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:  logger,
	}
}

type accountPayload struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

type authPayload struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Account      accountPayload `json:"account"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	var resp authPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"email": email, "password": password}, &resp, false)
	if err != nil {
		return nil, err
	}

	c.storeTokens(resp)
	return identityFromAccount(resp.Account), nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var resp authPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &resp, false)
	if err != nil {
		// Remember who tried to sign in so a courtesy resend can still be
		// addressed after an email-not-verified refusal
		c.mu.Lock()
		c.email = email
		c.mu.Unlock()
		return nil, err
	}

	c.storeTokens(resp)
	return identityFromAccount(resp.Account), nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout",
		map[string]string{"refresh_token": refreshToken}, nil, true)

	// Local tokens go regardless of what the provider said
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.email = ""
	c.mu.Unlock()

	return err
}

func (c *HTTPClient) ResendVerification(ctx context.Context) error {
	c.mu.Lock()
	email := c.email
	c.mu.Unlock()

	if email == "" {
		return errors.New("no current identity to resend verification for")
	}

	return c.do(ctx, http.MethodPost, "/api/v1/auth/verify/resend",
		map[string]string{"email": email}, nil, false)
}

func (c *HTTPClient) Reload(ctx context.Context) (*Identity, error) {
	var account accountPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &account, true); err != nil {
		return nil, err
	}
	return identityFromAccount(account), nil
}

// VerifyEmail consumes a verification token from a mail link
func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/verify",
		map[string]string{"token": token}, nil, false)
}

// Refresh rotates the refresh token and replaces the access token
func (c *HTTPClient) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.refreshToken
	c.mu.Unlock()

	if refreshToken == "" {
		return errors.New("no refresh token")
	}

	var resp authPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh",
		map[string]string{"refresh_token": refreshToken}, &resp, false)
	if err != nil {
		return err
	}

	c.storeTokens(resp)
	return nil
}

func (c *HTTPClient) Get(ctx context.Context) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &profile, true)
	if err != nil {
		var pErr *ProviderError
		if errors.As(err, &pErr) && pErr.Code == "profile-not-found" {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) Ensure(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/profile/ensure", nil, nil, true)
}

func (c *HTTPClient) CompleteOnboarding(ctx context.Context, draft OnboardingDraft) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, http.MethodPost, "/api/v1/profile/onboarding", draft, &profile, true)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) storeTokens(resp authPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		c.refreshToken = resp.RefreshToken
	}
	c.email = resp.Account.Email
}

func identityFromAccount(a accountPayload) *Identity {
	return &Identity{
		UID:           a.UID,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	var errResp errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Code == "" {
		return &ProviderError{
			Code:    "unknown",
			Message: fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode),
		}
	}

	return &ProviderError{Code: errResp.Code, Message: errResp.Message}
}
