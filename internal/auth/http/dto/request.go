// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	customValidation "github.com/allisson/hireflow/internal/validation"
)

// SignupRequest contains the fields accepted by POST /api/auth/signup.
type SignupRequest struct {
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"` //nolint:gosec // request field
	Role           string `json:"role"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
}

// Validate checks the request shape. Role and company rules are enforced by the use case.
func (r *SignupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(3, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128),
		),
		validation.Field(&r.Role, validation.Required),
	)
}

// ToDomain converts the request into a use case input.
func (r *SignupRequest) ToDomain() *authDomain.SignupInput {
	return &authDomain.SignupInput{
		Name:           r.Name,
		Username:       r.Username,
		Email:          r.Email,
		Password:       r.Password,
		Role:           r.Role,
		CompanyName:    r.CompanyName,
		CompanyWebsite: r.CompanyWebsite,
	}
}

// LoginRequest is the JSON login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordGrantRequest is the OAuth2 password form login body. Username
// carries the email.
type PasswordGrantRequest struct {
	Username string `form:"username"`
	Password string `form:"password"` //nolint:gosec // request field
}

// Validate checks if the form login request is valid.
func (r *PasswordGrantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"` //nolint:gosec // request field
}

// Validate checks if the refresh request is valid.
func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate checks if the forgot password request is valid.
func (r *ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, customValidation.Email),
	)
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"` //nolint:gosec // request field
}

// Validate checks if the reset password request is valid.
func (r *ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 128)),
	)
}
