package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "classifieds-api"

// Moderation actions a token can be bound to
const (
	ActionCheck   = "check"
	ActionApprove = "approve"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims binds a moderation link to one listing and one action
type Claims struct {
	ListingID string `json:"lid"`
	Action    string `json:"act"`
	jwt.RegisteredClaims
}

// IssueModerationToken signs a link token for the moderator mail
func IssueModerationToken(secret, listingID, action string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is required")
	}

	now := time.Now()
	claims := &Claims{
		ListingID: listingID,
		Action:    action,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   listingID,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseModerationToken validates the signature and expiry and returns the claims
func ParseModerationToken(tokenString, secret string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Allows reports whether the claims authorize action on listingID
func (c *Claims) Allows(listingID, action string) bool {
	return c.ListingID == listingID && c.Action == action
}
