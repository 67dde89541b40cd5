package acceptance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/heapsdsa/heapsauth/internal/dto"
)

func (s *Suite) register(email, password string) *http.Response {
	body, _ := json.Marshal(dto.RegisterRequest{Email: email, Password: password})
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/register", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) login(email, password string) *http.Response {
	body, _ := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/login", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

// verify consumes the raw token from the last captured mail event
func (s *Suite) verify() *http.Response {
	token := s.Publisher.LastVerificationToken()
	s.Require().NotEmpty(token, "expected a verification mail event")

	body, _ := json.Marshal(dto.VerifyEmailRequest{Token: token})
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/verify", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRegister_Success() {
	resp := s.register("test@example.com", "password123")
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	err := json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.Account.Email)
	s.NotEmpty(authResp.Account.UID)
	s.False(authResp.Account.EmailVerified)

	cookies := resp.Cookies()
	s.NotEmpty(cookies, "Should have refresh token cookie")

	// Registration must have queued a verification mail
	s.NotEmpty(s.Publisher.LastVerificationToken())
}

func (s *Suite) TestRegister_SucceedsWhenMailPublishFails() {
	s.Publisher.FailWith(errors.New("broker unavailable"))

	resp := s.register("maildown@example.com", "password123")
	defer resp.Body.Close()

	// Mail delivery is fire and forget; the account and session still exist
	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	s.NotEmpty(authResp.AccessToken)
	s.False(authResp.Account.EmailVerified)
	s.Empty(s.Publisher.LastVerificationToken(), "no mail event got through")

	// Once the broker recovers, a resend still reaches the user
	s.Publisher.Reset()
	body, _ := json.Marshal(dto.ResendVerificationRequest{Email: "maildown@example.com"})
	resendResp, err := http.Post(s.BaseURL+"/api/v1/auth/verify/resend", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	resendResp.Body.Close()
	s.Equal(http.StatusOK, resendResp.StatusCode)
	s.NotEmpty(s.Publisher.LastVerificationToken())
}

func (s *Suite) TestRegister_DuplicateEmail() {
	resp1 := s.register("duplicate@example.com", "password123")
	resp1.Body.Close()

	resp2 := s.register("duplicate@example.com", "password123")
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp2.Body).Decode(&errResp)
	s.Equal("email-already-in-use", errResp.Code)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.register("invalid-email", "password123")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid-email", errResp.Code)
}

func (s *Suite) TestRegister_ShortPassword() {
	resp := s.register("test@example.com", "short")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("weak-password", errResp.Code)
}

func (s *Suite) TestLogin_UnverifiedRefused() {
	resp := s.register("unverified@example.com", "password123")
	resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	loginResp := s.login("unverified@example.com", "password123")
	defer loginResp.Body.Close()

	s.Equal(http.StatusForbidden, loginResp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(loginResp.Body).Decode(&errResp)
	s.Equal("email-not-verified", errResp.Code)

	// A refused login re-sends the verification mail: one event from
	// registration plus one courtesy resend
	s.Len(s.Publisher.Events("auth.verification.requested"), 2)
}

func (s *Suite) TestLogin_AfterVerification() {
	resp := s.register("login@example.com", "password123")
	resp.Body.Close()

	verifyResp := s.verify()
	defer verifyResp.Body.Close()
	s.Equal(http.StatusOK, verifyResp.StatusCode)

	var account dto.AccountResponse
	json.NewDecoder(verifyResp.Body).Decode(&account)
	s.True(account.EmailVerified)

	loginResp := s.login("login@example.com", "password123")
	defer loginResp.Body.Close()

	s.Equal(http.StatusOK, loginResp.StatusCode)

	var authResp dto.AuthResponse
	err := json.NewDecoder(loginResp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.Account.Email)
	s.True(authResp.Account.EmailVerified)

	cookies := loginResp.Cookies()
	s.NotEmpty(cookies, "Should have refresh token cookie")
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.login("nonexistent@example.com", "password123")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("user-not-found", errResp.Code)
}

func (s *Suite) TestLogin_WrongPassword() {
	resp := s.register("wrongpass@example.com", "correct-password")
	resp.Body.Close()

	loginResp := s.login("wrongpass@example.com", "wrong-password")
	defer loginResp.Body.Close()

	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(loginResp.Body).Decode(&errResp)
	s.Equal("wrong-password", errResp.Code)
}

func (s *Suite) TestGetMe_Success() {
	registerResp := s.register("getme@example.com", "password123")
	defer registerResp.Body.Close()

	var authResp dto.AuthResponse
	json.NewDecoder(registerResp.Body).Decode(&authResp)

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var account dto.AccountResponse
	err = json.NewDecoder(resp.Body).Decode(&account)
	s.Require().NoError(err)

	s.NotEmpty(account.UID)
	s.Equal("getme@example.com", account.Email)
	s.False(account.EmailVerified)
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_Success() {
	registerResp := s.register("logout@example.com", "password123")
	defer registerResp.Body.Close()

	var authResp dto.AuthResponse
	json.NewDecoder(registerResp.Body).Decode(&authResp)

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))
	for _, cookie := range registerResp.Cookies() {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.Equal("Logged out successfully", successResp.Message)
}

func (s *Suite) TestRefresh_Success() {
	registerResp := s.register("refresh@example.com", "password123")
	defer registerResp.Body.Close()

	cookies := registerResp.Cookies()
	s.Require().NotEmpty(cookies)

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
}

func (s *Suite) TestRefresh_NoToken() {
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestResendVerification() {
	resp := s.register("resend@example.com", "password123")
	resp.Body.Close()

	firstToken := s.Publisher.LastVerificationToken()
	s.Require().NotEmpty(firstToken)

	body, _ := json.Marshal(dto.ResendVerificationRequest{Email: "resend@example.com"})
	resendResp, err := http.Post(s.BaseURL+"/api/v1/auth/verify/resend", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resendResp.Body.Close()

	s.Equal(http.StatusOK, resendResp.StatusCode)
	s.NotEqual(firstToken, s.Publisher.LastVerificationToken())
}

func (s *Suite) TestResendVerification_UnknownEmailIsSilent() {
	body, _ := json.Marshal(dto.ResendVerificationRequest{Email: "ghost@example.com"})
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/verify/resend", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Empty(s.Publisher.Events("auth.verification.requested"))
}

func (s *Suite) TestVerify_TokenIsSingleUse() {
	resp := s.register("singleuse@example.com", "password123")
	resp.Body.Close()

	token := s.Publisher.LastVerificationToken()
	s.Require().NotEmpty(token)

	body, _ := json.Marshal(dto.VerifyEmailRequest{Token: token})
	first, err := http.Post(s.BaseURL+"/api/v1/auth/verify", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	body, _ = json.Marshal(dto.VerifyEmailRequest{Token: token})
	second, err := http.Post(s.BaseURL+"/api/v1/auth/verify", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer second.Body.Close()

	s.Equal(http.StatusBadRequest, second.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(second.Body).Decode(&errResp)
	s.Equal("invalid-token", errResp.Code)
}

func (s *Suite) TestCompleteFlow() {
	registerResp := s.register("complete@example.com", "password123")
	defer registerResp.Body.Close()
	s.Equal(http.StatusCreated, registerResp.StatusCode)

	verifyResp := s.verify()
	verifyResp.Body.Close()
	s.Equal(http.StatusOK, verifyResp.StatusCode)

	loginResp := s.login("complete@example.com", "password123")
	defer loginResp.Body.Close()
	s.Equal(http.StatusOK, loginResp.StatusCode)

	var authResp dto.AuthResponse
	json.NewDecoder(loginResp.Body).Decode(&authResp)
	accessToken := authResp.AccessToken

	meReq, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	meReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	meResp, err := http.DefaultClient.Do(meReq)
	s.Require().NoError(err)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	cookies := loginResp.Cookies()
	refreshReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh", nil)
	for _, cookie := range cookies {
		refreshReq.AddCookie(cookie)
	}
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var newAuthResp dto.AuthResponse
	json.NewDecoder(refreshResp.Body).Decode(&newAuthResp)

	logoutReq, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/logout", nil)
	logoutReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", newAuthResp.AccessToken))
	logoutResp, err := http.DefaultClient.Do(logoutReq)
	s.Require().NoError(err)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)
}
