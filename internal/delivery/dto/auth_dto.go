package dto

// TokenResponse is printed by the token subcommand for API clients.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenID     string `json:"token_id"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
