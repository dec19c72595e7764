package service

import (
	"context"
	"testing"
	"time"

	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "screfinery-test")
	require.NoError(t, err)
	return signer
}

func TestLoginPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user := seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", []string{"user.read", "mining_session.*"})

	signer := newTestSigner(t)
	svc := &AuthService{
		Store:     st,
		Signer:    signer,
		Issuer:    "screfinery-test",
		AccessTTL: time.Minute,
	}

	t.Run("success mints a token carrying the user's scopes", func(t *testing.T) {
		result, err := svc.LoginPassword(ctx, "alice", "hunter2hunter2")
		require.NoError(t, err)
		require.Equal(t, "Bearer", result.TokenType)
		require.Equal(t, int64(60), result.ExpiresIn)

		claims, err := signer.Verify(result.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, "alice", claims.Username)
		require.ElementsMatch(t, []string{"user.read", "mining_session.*"}, claims.Scopes)
	})

	t.Run("success stamps last_login", func(t *testing.T) {
		_, err := svc.LoginPassword(ctx, "alice", "hunter2hunter2")
		require.NoError(t, err)

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.LoginPassword(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.LoginPassword(ctx, "nobody", "hunter2hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := seedUser(t, st, "bob", "bob@example.com", "hunter2hunter2", nil)
		off := false
		require.NoError(t, st.Users().UpdateUser(ctx, inactive.ID, store.UserUpdate{IsActive: &off}))

		_, err := svc.LoginPassword(ctx, "bob", "hunter2hunter2")
		require.ErrorIs(t, err, ErrUserInactive)
	})
}

type fakeGoogle struct {
	identity GoogleIdentity
	err      error
}

func (f fakeGoogle) Verify(context.Context, string) (GoogleIdentity, error) {
	return f.identity, f.err
}

func TestLoginGoogle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	signer := newTestSigner(t)

	svc := &AuthService{
		Store:         st,
		Signer:        signer,
		Issuer:        "screfinery-test",
		AccessTTL:     time.Minute,
		DefaultScopes: []string{"user.read", "friendship.*"},
		Google: fakeGoogle{identity: GoogleIdentity{
			Subject: "google-sub-1",
			Mail:    "carol@example.com",
			Name:    "Carol",
		}},
	}

	t.Run("creates a new account with default scopes", func(t *testing.T) {
		result, err := svc.LoginGoogle(ctx, "raw-id-token")
		require.NoError(t, err)
		require.True(t, result.User.IsGoogle)
		require.Equal(t, "carol@example.com", result.User.Mail)
		require.ElementsMatch(t, []string{"user.read", "friendship.*"}, result.User.Scopes)

		claims, err := signer.Verify(result.AccessToken)
		require.NoError(t, err)
		require.Equal(t, result.User.ID, claims.Subject)
	})

	t.Run("second login reuses the account", func(t *testing.T) {
		first, err := svc.LoginGoogle(ctx, "raw-id-token")
		require.NoError(t, err)
		second, err := svc.LoginGoogle(ctx, "raw-id-token")
		require.NoError(t, err)
		require.Equal(t, first.User.ID, second.User.ID)
	})

	t.Run("disabled without a verifier", func(t *testing.T) {
		disabled := &AuthService{Store: st, Signer: signer}
		_, err := disabled.LoginGoogle(ctx, "raw-id-token")
		require.ErrorIs(t, err, ErrGoogleDisabled)
	})

	t.Run("rejected token", func(t *testing.T) {
		bad := &AuthService{Store: st, Signer: signer, Google: fakeGoogle{err: ErrInvalidCredentials}}
		_, err := bad.LoginGoogle(ctx, "raw-id-token")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
