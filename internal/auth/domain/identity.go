// Package domain defines the identities, roles and token claims of the
// recruitment platform's authentication core.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an authenticated principal: a recruiter, a company account or
// an administrator. PasswordHash never leaves the service layer.
type Identity struct {
	ID             uuid.UUID
	Name           string
	Username       *string
	Email          string
	PasswordHash   string
	Role           Role
	CompanyName    *string
	CompanyWebsite *string
	CompanyID      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SignupInput carries the fields accepted when creating an identity.
type SignupInput struct {
	Name           string
	Username       string
	Email          string
	Password       string
	Role           string
	CompanyName    string
	CompanyWebsite string
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Role         Role
	Email        string
}

// TokenTypeBearer is the OAuth2 token_type reported to clients.
const TokenTypeBearer = "bearer"
