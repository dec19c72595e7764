package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/internal/store/drivers/sqlite"
	"github.com/screfinery/screfinery/pkg/cryptox"
	"github.com/screfinery/screfinery/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, name, mail, password string, scopes []string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Mail:         mail,
		PasswordHash: hash,
		IsActive:     true,
		Scopes:       scopes,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}
