package domain

// TokenPair is what a successful login hands back: a short-lived access token
// and a longer-lived refresh token, both signed session tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
