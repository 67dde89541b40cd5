package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollection = "users"

// profileRepository implements ProfileRepository on top of MongoDB
type profileRepository struct {
	mongo *database.Mongo
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(mongo *database.Mongo) ProfileRepository {
	return &profileRepository{mongo: mongo}
}

func (r *profileRepository) collection() *mongo.Collection {
	return r.mongo.DB.Collection(profileCollection)
}

// Get retrieves a profile document by account UID
func (r *profileRepository) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{}
	err := r.collection().FindOne(ctx, bson.M{"_id": uid}).Decode(profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile for uid %s not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// defaultProfileFields returns the fields applied once, at document creation.
// They go through $setOnInsert so a later call never resets xp or streaks.
func defaultProfileFields(email string, now time.Time) bson.M {
	return bson.M{
		"email":                  email,
		"displayName":            "",
		"username":               "",
		"currentGoal":            "Solve 5 questions a day",
		"level":                  1,
		"xp":                     0,
		"currentStreak":          0,
		"longestStreak":          0,
		"longestCorrectStreak":   0,
		"numberOfBadges":         0,
		"totalQuestionsAnswered": 0,
		"accuracy":               0.0,
		"settings": bson.M{
			"darkMode":      false,
			"notifications": true,
		},
		"isOnboardingCompleted": false,
		"lastLogin":             now,
		"createdAt":             now,
	}
}

// Ensure creates the profile document with defaults if absent. Idempotent:
// repeat calls for the same uid only refresh updatedAt.
func (r *profileRepository) Ensure(ctx context.Context, uid, email string) error {
	now := time.Now().UTC()

	_, err := r.collection().UpdateByID(ctx, uid,
		bson.M{
			"$setOnInsert": defaultProfileFields(email, now),
			"$set":         bson.M{"updatedAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure profile for uid %s: %w", uid, err)
	}

	return nil
}

// CompleteOnboarding merges the onboarding result into the profile document.
// The upsert covers the edge where the profile document was never created;
// retries produce the same document.
func (r *profileRepository) CompleteOnboarding(ctx context.Context, uid string, data domain.OnboardingData) error {
	now := time.Now().UTC()

	defaults := defaultProfileFields("", now)
	// Onboarding fields are written via $set; they must not also appear in
	// $setOnInsert or Mongo rejects the update as conflicting.
	delete(defaults, "displayName")
	delete(defaults, "username")
	delete(defaults, "currentGoal")
	delete(defaults, "isOnboardingCompleted")

	_, err := r.collection().UpdateByID(ctx, uid,
		bson.M{
			"$setOnInsert": defaults,
			"$set": bson.M{
				"displayName":           data.DisplayName,
				"username":              data.Username,
				"currentGoal":           data.Goal(),
				"isOnboardingCompleted": true,
				"updatedAt":             now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding for uid %s: %w", uid, err)
	}

	return nil
}

// TouchLastLogin refreshes lastLogin/updatedAt only; never an upsert, so a
// login touch can't materialize a half-empty profile.
func (r *profileRepository) TouchLastLogin(ctx context.Context, uid string) error {
	now := time.Now().UTC()

	result, err := r.collection().UpdateByID(ctx, uid, bson.M{
		"$set": bson.M{
			"lastLogin": now,
			"updatedAt": now,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to touch last login for uid %s: %w", uid, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("profile for uid %s not found: %w", uid, ErrNotFound)
	}

	return nil
}
