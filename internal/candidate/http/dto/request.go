// Package dto provides data transfer objects for the candidate endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/hireflow/internal/validation"
)

// LoginRequest starts a candidate OTP login. Accepted as form or JSON.
type LoginRequest struct {
	Name  string `json:"name"  form:"name"`
	Email string `json:"email" form:"email"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, customValidation.Email, validation.Length(3, 255)),
	)
}

// VerifyOTPRequest submits the emailed code.
type VerifyOTPRequest struct {
	CandidateID string `json:"candidate_id" form:"candidate_id"`
	OTP         string `json:"otp"          form:"otp"`
}

// Validate checks if the verify request is valid.
func (r *VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CandidateID, validation.Required),
		validation.Field(&r.OTP, validation.Required, customValidation.Digits, validation.Length(4, 12)),
	)
}
