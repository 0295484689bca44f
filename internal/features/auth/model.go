package auth

// Identity is the authenticated caller as asserted by the identity provider
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

// context keys set by the middleware
const (
	identityKey = "identity"
	emailKey    = "email"
)
