package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/heapsdsa/heapsauth/internal/dto"
)

// registerAndVerify walks a fresh account through registration, verification
// and login, returning a usable access token.
func (s *Suite) registerAndVerify(email, password string) string {
	registerResp := s.register(email, password)
	registerResp.Body.Close()
	s.Require().Equal(http.StatusCreated, registerResp.StatusCode)

	verifyResp := s.verify()
	verifyResp.Body.Close()
	s.Require().Equal(http.StatusOK, verifyResp.StatusCode)

	loginResp := s.login(email, password)
	defer loginResp.Body.Close()
	s.Require().Equal(http.StatusOK, loginResp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&authResp))
	return authResp.AccessToken
}

func (s *Suite) getProfile(accessToken string) *http.Response {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/profile", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) completeOnboarding(accessToken string, body dto.OnboardingRequest) *http.Response {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/profile/onboarding", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestProfile_CreatedOnVerification() {
	token := s.registerAndVerify("profile@example.com", "password123")

	resp := s.getProfile(token)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))

	s.Equal("profile@example.com", profile.Email)
	s.Equal(1, profile.Level)
	s.Equal(0, profile.XP)
	s.False(profile.IsOnboardingCompleted)
	s.False(profile.Settings.DarkMode)
	s.True(profile.Settings.Notifications)
}

func (s *Suite) TestProfile_RequiresAuth() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/profile", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestOnboarding_Completes() {
	token := s.registerAndVerify("onboard@example.com", "password123")

	resp := s.completeOnboarding(token, dto.OnboardingRequest{
		DisplayName:       "Ada Lovelace",
		Username:          "ada_l",
		PracticeFrequency: 5,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))

	s.Equal("Ada Lovelace", profile.DisplayName)
	s.Equal("ada_l", profile.Username)
	s.Equal("Practice 5 times a week", profile.CurrentGoal)
	s.True(profile.IsOnboardingCompleted)
	// Merge write must not reset gameplay defaults
	s.Equal(1, profile.Level)
	s.Equal(0, profile.XP)
}

func (s *Suite) TestOnboarding_InvalidFrequency() {
	token := s.registerAndVerify("badfreq@example.com", "password123")

	resp := s.completeOnboarding(token, dto.OnboardingRequest{
		DisplayName:       "Ada",
		Username:          "ada",
		PracticeFrequency: 4,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid-frequency", errResp.Code)
}

func (s *Suite) TestOnboarding_InvalidUsername() {
	token := s.registerAndVerify("badname@example.com", "password123")

	resp := s.completeOnboarding(token, dto.OnboardingRequest{
		DisplayName:       "Ada",
		Username:          "a!",
		PracticeFrequency: 3,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestOnboarding_RetryIsIdempotent() {
	token := s.registerAndVerify("retry@example.com", "password123")

	first := s.completeOnboarding(token, dto.OnboardingRequest{
		DisplayName:       "Ada",
		Username:          "ada",
		PracticeFrequency: 3,
	})
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.completeOnboarding(token, dto.OnboardingRequest{
		DisplayName:       "Ada",
		Username:          "ada",
		PracticeFrequency: 3,
	})
	defer second.Body.Close()
	s.Equal(http.StatusOK, second.StatusCode)

	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(second.Body).Decode(&profile))
	s.True(profile.IsOnboardingCompleted)
	s.Equal("Practice 3 times a week", profile.CurrentGoal)
}

func (s *Suite) TestProfile_ProgressSurvivesRelogin() {
	token := s.registerAndVerify("progress@example.com", "password123")

	resp := s.getProfile(token)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// Simulate gameplay progress written by another feature
	ctx := context.Background()
	var doc struct {
		UID string `bson:"_id"`
	}
	s.Require().NoError(s.Mongo.DB.Collection("users").
		FindOne(ctx, bson.M{"email": "progress@example.com"}).Decode(&doc))
	_, err := s.Mongo.DB.Collection("users").UpdateByID(ctx, doc.UID, bson.M{
		"$set": bson.M{"xp": 250, "currentStreak": 7},
	})
	s.Require().NoError(err)

	// A later login only touches lastLogin, never progress fields
	loginResp := s.login("progress@example.com", "password123")
	defer loginResp.Body.Close()
	s.Require().Equal(http.StatusOK, loginResp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&authResp))

	after := s.getProfile(authResp.AccessToken)
	defer after.Body.Close()

	var profile dto.ProfileResponse
	s.Require().NoError(json.NewDecoder(after.Body).Decode(&profile))
	s.Equal(250, profile.XP)
	s.Equal(7, profile.CurrentStreak)
}

func (s *Suite) TestEnsureProfile_RefusedForUnverified() {
	registerResp := s.register("noverify@example.com", "password123")
	defer registerResp.Body.Close()

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(registerResp.Body).Decode(&authResp))

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/profile/ensure", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("email-not-verified", errResp.Code)
}
