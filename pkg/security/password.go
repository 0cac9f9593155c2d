package security

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("password hashing failed")
	ErrUnknownScheme = errors.New("unknown credential scheme")
)

// Credential schemes accepted in configuration.
const (
	SchemePlaintext = "plaintext"
	SchemeBcrypt    = "bcrypt"
)

// CredentialChecker decides whether a typed password matches what is stored,
// and produces the stored form of a new password.
type CredentialChecker interface {
	Seal(password string) (string, error)
	Match(stored, typed string) bool
}

// NewCredentialChecker returns the checker for scheme.
func NewCredentialChecker(scheme string, bcryptCost int) (CredentialChecker, error) {
	switch scheme {
	case "", SchemePlaintext:
		return PlaintextChecker{}, nil
	case SchemeBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}
}

// PlaintextChecker stores passwords as typed and compares them exactly.
type PlaintextChecker struct{}

func (PlaintextChecker) Seal(password string) (string, error) {
	return password, nil
}

func (PlaintextChecker) Match(stored, typed string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(typed)) == 1
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new password hasher using bcrypt
func NewBcryptHasher(cost int) CredentialChecker {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Seal(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Match(stored, typed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(typed)) == nil
}
