package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/cryptox"
	"github.com/screfinery/screfinery/pkg/idx"
	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/screfinery/screfinery/pkg/slogx"
)

// GoogleIdentity is the subset of a verified Google ID token we care about.
type GoogleIdentity struct {
	Subject string
	Mail    string
	Name    string
}

// GoogleVerifier verifies a raw Google ID token. Nil when Google sign-in is
// not configured.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (GoogleIdentity, error)
}

type AuthService struct {
	Store         store.Store
	Signer        jwtx.Signer
	Issuer        string
	AccessTTL     time.Duration
	DefaultScopes []string
	Google        GoogleVerifier
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	User        domain.User
}

// LoginPassword verifies name+password and mints an access token carrying the
// user's scopes. Unknown users and bad passwords both come back as
// ErrInvalidCredentials so the response doesn't leak which one it was.
func (s *AuthService) LoginPassword(ctx context.Context, name, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if user.IsGoogle || user.PasswordHash == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("password login failed", slog.String("user", name))
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginResult{}, ErrUserInactive
	}

	if err := s.Store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		return LoginResult{}, fmt.Errorf("stamping last login: %w", err)
	}

	return s.mint(user)
}

// LoginGoogle verifies a Google ID token and finds or creates the matching
// account. New accounts start with the configured default scopes.
func (s *AuthService) LoginGoogle(ctx context.Context, rawIDToken string) (LoginResult, error) {
	if s.Google == nil {
		return LoginResult{}, ErrGoogleDisabled
	}

	identity, err := s.Google.Verify(ctx, rawIDToken)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if identity.Mail == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByMail(ctx, identity.Mail)
	switch {
	case err == nil:
		// Existing account, Google-backed or not.
	case errors.Is(err, store.ErrNotFound):
		user, err = s.createGoogleUser(ctx, identity)
		if err != nil {
			return LoginResult{}, err
		}
	default:
		return LoginResult{}, err
	}

	if !user.IsActive {
		return LoginResult{}, ErrUserInactive
	}

	if err := s.Store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		return LoginResult{}, fmt.Errorf("stamping last login: %w", err)
	}

	return s.mint(user)
}

func (s *AuthService) createGoogleUser(ctx context.Context, identity GoogleIdentity) (domain.User, error) {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(identity.Mail, "@")
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	user := domain.User{
		ID:       idx.New().String(),
		Name:     name,
		Mail:     identity.Mail,
		IsGoogle: true,
		IsActive: true,
		Scopes:   append([]string(nil), s.DefaultScopes...),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Users().CreateUser(ctx, user)
		if errors.Is(err, store.ErrAlreadyExists) {
			// Display name taken; fall back to a unique one.
			user.Name = uniqueName(name, user.ID)
			return tx.Users().CreateUser(ctx, user)
		}
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("creating google user: %w", err)
	}

	slogx.FromContext(ctx).Info("created google user",
		slog.String("user_id", user.ID),
		slog.String("mail", user.Mail),
	)
	return user, nil
}

// uniqueName appends a short ULID suffix, trimming the base so the result
// still fits the column.
func uniqueName(base, id string) string {
	suffix := "-" + id[len(id)-6:]
	if len(base)+len(suffix) > maxNameLen {
		base = base[:maxNameLen-len(suffix)]
	}
	return base + suffix
}

func (s *AuthService) mint(user domain.User) (LoginResult, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Scopes, ttl, s.Issuer, user.Name, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("signing access token: %w", err)
	}

	return LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	}, nil
}
