package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the token verifier yields: the caller's stable external id
// and email. All authorization in the core works off these two fields.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// TokenVerifier validates a bearer credential and resolves the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Google publishes the securetoken signing keys as a JWK set.
const firebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

type firebaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// FirebaseVerifier validates Firebase ID tokens against the securetoken JWKS.
type FirebaseVerifier struct {
	projectID string
	jwks      *keyfunc.JWKS
}

func NewFirebaseVerifier(projectID string) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project ID is required")
	}

	jwks, err := keyfunc.Get(firebaseJWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %v", err)
	}

	return &FirebaseVerifier{
		projectID: projectID,
		jwks:      jwks,
	}, nil
}

func (fv *FirebaseVerifier) Verify(ctx context.Context, tokenStr string) (*Identity, error) {
	claims := &firebaseClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, fv.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+fv.projectID),
		jwt.WithAudience(fv.projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid or expired token")
	}

	return &Identity{
		UID:   claims.Subject,
		Email: claims.Email,
	}, nil
}

func (fv *FirebaseVerifier) Close() {
	fv.jwks.EndBackground()
}
