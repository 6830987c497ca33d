package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose separates access, refresh and reset tokens. A token issued for
// one purpose never verifies for another.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
	PurposeReset   TokenPurpose = "reset"
)

// Claims is the verified content of a token.
type Claims struct {
	TokenID   string
	Subject   uuid.UUID
	Purpose   TokenPurpose
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
