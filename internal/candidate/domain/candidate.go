// Package domain defines candidates and their one-time password challenge.
package domain

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// Candidate is a job applicant who signs in with an emailed one-time password.
// At most one OTP challenge is live at a time; issuing a new one replaces it.
type Candidate struct {
	ID           uuid.UUID
	Name         string
	Email        string
	OTPCode      *string
	OTPCreatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetOTP replaces the live challenge.
func (c *Candidate) SetOTP(code string, now time.Time) {
	c.OTPCode = &code
	c.OTPCreatedAt = &now
	c.UpdatedAt = now
}

// ClearOTP consumes the live challenge.
func (c *Candidate) ClearOTP(now time.Time) {
	c.OTPCode = nil
	c.OTPCreatedAt = nil
	c.UpdatedAt = now
}

// OTPMatches reports whether code equals the live challenge and no more than
// window has elapsed since it was issued. The comparison is constant time.
func (c *Candidate) OTPMatches(code string, now time.Time, window time.Duration) bool {
	if c.OTPCode == nil || c.OTPCreatedAt == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(*c.OTPCode), []byte(code)) != 1 {
		return false
	}
	return now.Sub(*c.OTPCreatedAt) <= window
}
