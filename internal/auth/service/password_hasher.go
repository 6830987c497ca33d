package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/hireflow/internal/errors"
)

const argon2idPrefix = "$argon2id$"

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

type passwordHasher struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordHasher creates an Argon2id hasher with the Moderate policy that
// also accepts bcrypt digests imported from the previous system.
func NewPasswordHasher() (PasswordHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordHasher{hasher: hasher}, nil
}

func (p *passwordHasher) Hash(password string) (string, error) {
	digest, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return digest, nil
}

func (p *passwordHasher) Verify(password, digest string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	if !strings.HasPrefix(digest, argon2idPrefix) {
		return false
	}
	ok, err := p.hasher.Verify([]byte(password), digest)
	if err != nil {
		return false
	}
	return ok
}

func (p *passwordHasher) NeedsRehash(digest string) bool {
	return !strings.HasPrefix(digest, argon2idPrefix)
}

func isBcrypt(digest string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(digest, prefix) {
			return true
		}
	}
	return false
}
