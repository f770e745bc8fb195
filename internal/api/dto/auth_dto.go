package dto

// Data Transfer Objects for signup and token issuance

// SignUpRequest: payload for requesting a confirmation code
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignUpResponse echoes the pair the code was issued for
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse carries the signed access token
type TokenResponse struct {
	Token string `json:"token"`
}
