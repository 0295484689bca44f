package listings

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/blake2b"
)

// Listing states as seen by readers
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusDeactivated = "deactivated"
)

var (
	ErrListingNotFound    = fmt.Errorf("listing %w", apperrors.ErrNotFound)
	ErrAlreadyApproved    = fmt.Errorf("listing already approved: %w", apperrors.ErrConflict)
	ErrAlreadyDeactivated = fmt.Errorf("listing already deactivated: %w", apperrors.ErrConflict)
	ErrAlreadyActive      = fmt.Errorf("listing is already active: %w", apperrors.ErrConflict)
	ErrStateChanged       = fmt.Errorf("listing changed concurrently: %w", apperrors.ErrConflict)
	ErrWrongPassword      = fmt.Errorf("wrong listing password: %w", apperrors.ErrForbidden)
	ErrInvalidToken       = fmt.Errorf("invalid reactivation token: %w", apperrors.ErrForbidden)
	ErrUpload             = fmt.Errorf("image upload failed: %w", apperrors.ErrExternal)
)

// Flags is the persisted moderation state
type Flags struct {
	Approved    bool
	Deactivated bool
}

func (l *Listing) Flags() Flags {
	return Flags{Approved: l.Approved, Deactivated: l.Deactivated}
}

// Status collapses the two flags. Deactivation wins over approval.
func (l *Listing) Status() string {
	switch {
	case l.Deactivated:
		return StatusDeactivated
	case l.Approved:
		return StatusApproved
	default:
		return StatusPending
	}
}

// Visible reports whether public views may show the listing
func (l *Listing) Visible() bool {
	return l.Approved && !l.Deactivated
}

// approveTransition moves a pending listing to approved
func approveTransition(current Flags) (Flags, error) {
	if current.Approved {
		return current, ErrAlreadyApproved
	}
	next := current
	next.Approved = true
	return next, nil
}

// deactivateTransition hides a listing; approval is kept so reactivation
// restores the state the listing had before
func deactivateTransition(current Flags) (Flags, error) {
	if current.Deactivated {
		return current, ErrAlreadyDeactivated
	}
	next := current
	next.Deactivated = true
	return next, nil
}

func reactivateTransition(current Flags) (Flags, error) {
	if !current.Deactivated {
		return current, ErrAlreadyActive
	}
	next := current
	next.Deactivated = false
	return next, nil
}

// ReactivationToken binds the listing password to the listing id
func ReactivationToken(password string, id primitive.ObjectID) string {
	sum := blake2b.Sum256([]byte(password + id.Hex()))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares in constant time
func (l *Listing) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(l.Password), []byte(password)) == 1
}

// CheckReactivationToken compares in constant time
func (l *Listing) CheckReactivationToken(token string) bool {
	want := ReactivationToken(l.Password, l.ID)
	return subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 1
}

const (
	passwordAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	passwordLength   = 8
)

// GeneratePassword returns a random base36 deactivation password
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, passwordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}
