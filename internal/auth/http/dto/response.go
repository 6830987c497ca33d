package dto

import (
	"strings"
	"time"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
)

// IdentityResponse is the public view of an identity. The password hash is
// never serialized.
type IdentityResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Username       *string   `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CompanyName    *string   `json:"company_name"`
	CompanyWebsite *string   `json:"company_website"`
	CompanyID      *string   `json:"company_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// MapIdentityToResponse converts a domain identity to its public view.
func MapIdentityToResponse(identity *authDomain.Identity) IdentityResponse {
	resp := IdentityResponse{
		ID:             identity.ID.String(),
		Name:           identity.Name,
		Username:       identity.Username,
		Email:          identity.Email,
		Role:           identity.Role.String(),
		CompanyName:    identity.CompanyName,
		CompanyWebsite: identity.CompanyWebsite,
		CreatedAt:      identity.CreatedAt,
	}
	if identity.CompanyID != nil {
		companyID := identity.CompanyID.String()
		resp.CompanyID = &companyID
	}
	return resp
}

// SignupResponse is the public view plus a confirmation message.
type SignupResponse struct {
	IdentityResponse
	Message string `json:"message"`
}

// MapIdentityToSignupResponse builds the 201 body of a signup.
func MapIdentityToSignupResponse(identity *authDomain.Identity) SignupResponse {
	role := identity.Role.String()
	if role != "" {
		role = strings.ToUpper(role[:1]) + role[1:]
	}
	return SignupResponse{
		IdentityResponse: MapIdentityToResponse(identity),
		Message:          role + " created successfully",
	}
}

// ListIdentitiesResponse is a page of public identity views.
type ListIdentitiesResponse struct {
	Data []IdentityResponse `json:"data"`
}

// MapIdentitiesToListResponse converts a slice of identities to a list response.
func MapIdentitiesToListResponse(identities []*authDomain.Identity) ListIdentitiesResponse {
	data := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		data = append(data, MapIdentityToResponse(identity))
	}
	return ListIdentitiesResponse{Data: data}
}

// TokenResponse is returned by login and refresh. RefreshToken is omitted on refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`            //nolint:gosec // returned to the owner
	RefreshToken string `json:"refresh_token,omitempty"` //nolint:gosec // returned to the owner
	TokenType    string `json:"token_type"`
	Role         string `json:"role"`
	Email        string `json:"email"`
}

// MapTokenPairToResponse converts a token pair to its response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		Role:         pair.Role.String(),
		Email:        pair.Email,
	}
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
