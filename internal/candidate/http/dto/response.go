package dto

// LoginResponse confirms the OTP was queued. The code itself is never returned.
type LoginResponse struct {
	Message     string `json:"message"`
	CandidateID string `json:"candidate_id"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
