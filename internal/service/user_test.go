package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	svc := &UserService{Store: st, DefaultScopes: []string{"user.read"}}

	t.Run("empty scopes fall back to the defaults", func(t *testing.T) {
		user, err := svc.Create(ctx, CreateUserParams{
			Name:            "alice",
			Mail:            "alice@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
			IsActive:        true,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"user.read"}, user.Scopes)
		require.NotEmpty(t, user.ID)
		require.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	})

	t.Run("explicit scopes are kept", func(t *testing.T) {
		user, err := svc.Create(ctx, CreateUserParams{
			Name:            "bob",
			Mail:            "bob@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
			Scopes:          []string{"ore.*", "station.read"},
			IsActive:        true,
		})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"ore.*", "station.read"}, user.Scopes)
	})

	t.Run("malformed scope is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            "carl",
			Mail:            "carl@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
			Scopes:          []string{"nodot"},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "scopes", verr.Field)
	})

	t.Run("password confirm must match", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            "dave",
			Mail:            "dave@example.com",
			Password:        "one password",
			PasswordConfirm: "another password",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "password_confirm", verr.Field)
	})

	t.Run("name length is capped", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            strings.Repeat("x", 51),
			Mail:            "long@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "name", verr.Field)
	})

	t.Run("mail must look like an address", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            "eve",
			Mail:            "not-a-mail",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "mail", verr.Field)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            "alice",
			Mail:            "alice2@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("failed create leaves no half-written account", func(t *testing.T) {
		// A repeated scope string passes validation but trips the scope
		// table's uniqueness; the user row must roll back with it so the
		// name stays free.
		_, err := svc.Create(ctx, CreateUserParams{
			Name:            "fred",
			Mail:            "fred@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
			Scopes:          []string{"user.read", "user.read"},
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = st.Users().GetUserByName(ctx, "fred")
		require.ErrorIs(t, err, store.ErrNotFound)

		retry, err := svc.Create(ctx, CreateUserParams{
			Name:            "fred",
			Mail:            "fred@example.com",
			Password:        "hunter2hunter2",
			PasswordConfirm: "hunter2hunter2",
			Scopes:          []string{"user.read"},
		})
		require.NoError(t, err)
		require.Equal(t, "fred", retry.Name)
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", []string{"user.read"})

	t.Run("scope replacement is wholesale", func(t *testing.T) {
		updated, err := svc.Update(ctx, user.ID, UpdateUserParams{
			Scopes: []string{"mining_session.*", "ore.read"},
		})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"mining_session.*", "ore.read"}, updated.Scopes)
		require.NotContains(t, updated.Scopes, "user.read")
	})

	t.Run("nil fields leave the record alone", func(t *testing.T) {
		newMail := "alice@new.example.com"
		updated, err := svc.Update(ctx, user.ID, UpdateUserParams{Mail: &newMail})
		require.NoError(t, err)
		require.Equal(t, "alice", updated.Name)
		require.Equal(t, newMail, updated.Mail)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "ghost"
		_, err := svc.Update(ctx, "01J00000000000000000000000", UpdateUserParams{Name: &name})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("scope-only update of an unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "01J00000000000000000000000", UpdateUserParams{
			Scopes: []string{"ore.read"},
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("scope-only update bumps updated_at", func(t *testing.T) {
		before, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		updated, err := svc.Update(ctx, user.ID, UpdateUserParams{
			Scopes: []string{"station.read"},
		})
		require.NoError(t, err)
		require.True(t, updated.UpdatedAt.After(before.UpdatedAt))
	})
}

func TestUserList(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", nil)
	seedUser(t, st, "bob", "bob@example.com", "hunter2hunter2", nil)
	seedUser(t, st, "carol", "carol@example.com", "hunter2hunter2", nil)

	t.Run("paginates and reports the full total", func(t *testing.T) {
		page, total, err := svc.List(ctx, domain.UserFilter{}, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		require.Equal(t, 3, total)
	})

	t.Run("filters by name", func(t *testing.T) {
		name := "bob"
		page, total, err := svc.List(ctx, domain.UserFilter{Name: &name}, 0, 10)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, "bob", page[0].Name)
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st}

	user := seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", nil)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err := svc.Get(ctx, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, user.ID), store.ErrNotFound)
}
