// Package service provides the candidate one-time password generator.
package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Bounds on the configured OTP length.
const (
	MinOTPLength = 4
	MaxOTPLength = 12
)

// OTPGenerator produces one-time password codes.
type OTPGenerator interface {
	Generate() (string, error)
}

type numericOTPGenerator struct {
	length int
}

// NewNumericOTPGenerator returns a generator of fixed-length decimal codes
// drawn from crypto/rand.
func NewNumericOTPGenerator(length int) (OTPGenerator, error) {
	if length < MinOTPLength || length > MaxOTPLength {
		return nil, fmt.Errorf("otp length must be between %d and %d", MinOTPLength, MaxOTPLength)
	}
	return &numericOTPGenerator{length: length}, nil
}

func (g *numericOTPGenerator) Generate() (string, error) {
	ten := big.NewInt(10)
	digits := make([]byte, g.length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		//nolint:gosec // n is bounded [0,9]
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
