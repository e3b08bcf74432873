package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// PasswordGrant exchanges a resource owner's username and password for
	// tokens. Token request includes: username, password, client_id,
	// client_secret, scope.
	PasswordGrant GrantType = "password"

	// RefreshTokenGrant exchanges a refresh token for new tokens without
	// re-authenticating the user. The refresh token rotates on each use.
	RefreshTokenGrant GrantType = "refresh_token"
)

// Valid reports whether g is a grant type this backend supports.
func (g GrantType) Valid() bool {
	return g == PasswordGrant || g == RefreshTokenGrant
}
