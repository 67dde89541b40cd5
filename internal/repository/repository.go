package repository

import (
	"github.com/heapsdsa/heapsauth/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Account           AccountRepository
	Token             TokenRepository
	VerificationToken VerificationTokenRepository
	Profile           ProfileRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres, mongo *database.Mongo) *Repositories {
	return &Repositories{
		Account:           NewAccountRepository(db),
		Token:             NewTokenRepository(db),
		VerificationToken: NewVerificationTokenRepository(db),
		Profile:           NewProfileRepository(mongo),
	}
}
