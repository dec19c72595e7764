package service

import (
	"context"
	"fmt"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/cryptox"
	"github.com/screfinery/screfinery/pkg/idx"
)

type UserService struct {
	Store         store.Store
	DefaultScopes []string
}

// CreateUserParams carries a user-creation request. Password and
// PasswordConfirm must match. Empty Scopes means "use the defaults".
type CreateUserParams struct {
	Name            string
	Mail            string
	Password        string
	PasswordConfirm string
	Scopes          []string
	IsActive        bool
}

// UpdateUserParams carries optional mutations. Nil fields are left untouched.
// A non-nil Scopes slice replaces the user's scope set wholesale.
type UpdateUserParams struct {
	Name            *string
	Mail            *string
	Password        *string
	PasswordConfirm *string
	IsActive        *bool
	Scopes          []string
}

func (s *UserService) Create(ctx context.Context, p CreateUserParams) (domain.User, error) {
	if err := validateName(p.Name); err != nil {
		return domain.User{}, err
	}
	if err := validateMail(p.Mail); err != nil {
		return domain.User{}, err
	}
	if p.Password == "" {
		return domain.User{}, invalid("password", "must not be empty")
	}
	if p.Password != p.PasswordConfirm {
		return domain.User{}, invalid("password_confirm", "must match password")
	}

	scopes := p.Scopes
	if len(scopes) == 0 {
		scopes = append([]string(nil), s.DefaultScopes...)
	}
	if err := validateScopes(scopes); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         p.Name,
		Mail:         p.Mail,
		PasswordHash: hash,
		IsActive:     p.IsActive,
		Scopes:       scopes,
	}

	// The user row and its scope rows must land together; a failed scope
	// insert must not leave the name and mail taken by a half-created account.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, user.ID)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter, offset, limit int) ([]domain.User, int, error) {
	return s.Store.Users().ListUsers(ctx, filter, offset, limit)
}

func (s *UserService) Update(ctx context.Context, id string, p UpdateUserParams) (domain.User, error) {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return domain.User{}, err
		}
	}
	if p.Mail != nil {
		if err := validateMail(*p.Mail); err != nil {
			return domain.User{}, err
		}
	}
	if p.Scopes != nil {
		if err := validateScopes(p.Scopes); err != nil {
			return domain.User{}, err
		}
	}

	upd := store.UserUpdate{
		Name:     p.Name,
		Mail:     p.Mail,
		IsActive: p.IsActive,
	}

	if p.Password != nil {
		if p.PasswordConfirm == nil || *p.Password != *p.PasswordConfirm {
			return domain.User{}, invalid("password_confirm", "must match password")
		}
		if *p.Password == "" {
			return domain.User{}, invalid("password", "must not be empty")
		}
		hash, err := cryptox.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hashing password: %w", err)
		}
		upd.PasswordHash = &hash
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, id, upd); err != nil {
			return err
		}
		if p.Scopes != nil {
			return tx.Users().ReplaceUserScopes(ctx, id, p.Scopes)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Store.Users().DeleteUser(ctx, id)
}
