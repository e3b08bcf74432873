package oauth2

// TokenResponse is the standard OAuth2 token endpoint response as defined in
// RFC 6749, returned for both the password and refresh_token grants.
type TokenResponse struct {
	// AccessToken is presented on protected resources as
	// "Authorization: Bearer <access_token>". Short-lived.
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque token exchanged for a new token pair at
	// the token endpoint. Long-lived, rotates on each use.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer" in this implementation.
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds. This is a hint -
	// the authoritative expiry is the token's "exp" claim.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-separated list of granted scopes, when narrower
	// than requested.
	Scope string `json:"scope,omitempty"`
}
