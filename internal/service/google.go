package service

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// OIDCGoogleVerifier checks Google ID tokens against Google's published JWKS
// via OIDC discovery.
type OIDCGoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier runs OIDC discovery against Google's issuer. clientID is
// enforced as the token audience.
func NewGoogleVerifier(ctx context.Context, clientID string) (*OIDCGoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}
	return &OIDCGoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *OIDCGoogleVerifier) Verify(ctx context.Context, rawIDToken string) (GoogleIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("google id token verification: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return GoogleIdentity{}, fmt.Errorf("parsing google claims: %w", err)
	}
	if !claims.EmailVerified {
		return GoogleIdentity{}, fmt.Errorf("google account mail not verified")
	}

	return GoogleIdentity{
		Subject: idToken.Subject,
		Mail:    claims.Email,
		Name:    claims.Name,
	}, nil
}
