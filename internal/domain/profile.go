package domain

import (
	"fmt"
	"time"
)

// ProfileSettings holds per-user app settings stored inside the profile document
type ProfileSettings struct {
	DarkMode      bool `bson:"darkMode" json:"darkMode"`
	Notifications bool `bson:"notifications" json:"notifications"`
}

// UserProfile is the per-user gameplay/profile document, keyed by account UID.
// It is written with merge semantics only: defaults are applied once at
// creation and feature-specific fields (xp, streaks) are never clobbered by
// unrelated updates such as onboarding completion or login touch-ups.
type UserProfile struct {
	UID                    string          `bson:"_id" json:"uid"`
	Email                  string          `bson:"email" json:"email"`
	DisplayName            string          `bson:"displayName" json:"display_name"`
	Username               string          `bson:"username" json:"username"`
	CurrentGoal            string          `bson:"currentGoal" json:"current_goal"`
	Level                  int             `bson:"level" json:"level"`
	XP                     int             `bson:"xp" json:"xp"`
	CurrentStreak          int             `bson:"currentStreak" json:"current_streak"`
	LongestStreak          int             `bson:"longestStreak" json:"longest_streak"`
	LongestCorrectStreak   int             `bson:"longestCorrectStreak" json:"longest_correct_streak"`
	NumberOfBadges         int             `bson:"numberOfBadges" json:"number_of_badges"`
	TotalQuestionsAnswered int             `bson:"totalQuestionsAnswered" json:"total_questions_answered"`
	Accuracy               float64         `bson:"accuracy" json:"accuracy"`
	Settings               ProfileSettings `bson:"settings" json:"settings"`
	IsOnboardingCompleted  bool            `bson:"isOnboardingCompleted" json:"is_onboarding_completed"`
	LastLogin              time.Time       `bson:"lastLogin" json:"last_login"`
	CreatedAt              time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt              time.Time       `bson:"updatedAt" json:"updated_at"`
}

// OnboardingData is the result of the client onboarding wizard, persisted as a
// single merge write when the flow completes.
type OnboardingData struct {
	DisplayName       string `json:"display_name"`
	Username          string `json:"username"`
	PracticeFrequency int    `json:"practice_frequency"`
}

// Goal renders the weekly practice goal string derived from the chosen frequency
func (o OnboardingData) Goal() string {
	return fmt.Sprintf("Practice %d times a week", o.PracticeFrequency)
}
