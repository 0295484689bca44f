package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/xyz-asif/classifieds/internal/config"
)

var ErrInvalidIDToken = errors.New("invalid id token")

// Verifier turns a bearer ID token into an Identity
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// NewVerifier picks the verifier configured by IDENTITY_PROVIDER
func NewVerifier(ctx context.Context, cfg *config.Config) (Verifier, error) {
	switch cfg.IdentityProvider {
	case "google":
		if cfg.GoogleClientID == "" {
			return nil, errors.New("GOOGLE_CLIENT_ID is required for the google identity provider")
		}
		return NewGoogleVerifier(cfg.GoogleClientID), nil
	case "firebase", "":
		client, err := InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
		if err != nil {
			return nil, err
		}
		return NewFirebaseVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.IdentityProvider)
	}
}

// InitFirebase initializes the Firebase Admin SDK and returns the Auth client
func InitFirebase(ctx context.Context, serviceAccountPath string) (*fbauth.Client, error) {
	var opts []option.ClientOption
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return client, nil
}

// FirebaseVerifier checks Firebase ID tokens
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return identityFromClaims(tok.UID, tok.Claims)
}

// GoogleVerifier checks Google ID tokens against the OAuth client id
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

// identityFromClaims extracts the standard OIDC profile claims. An identity
// without an email is useless here since listings and messages are keyed by it.
func identityFromClaims(uid string, claims map[string]interface{}) (*Identity, error) {
	id := &Identity{UID: uid}

	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if picture, ok := claims["picture"].(string); ok {
		id.Picture = picture
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}

	if id.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidIDToken)
	}
	return id, nil
}
