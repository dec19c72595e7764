package service

import (
	"context"
	"errors"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
)

type FriendshipService struct {
	Store store.Store
}

func (s *FriendshipService) List(ctx context.Context, userID string) (domain.FriendshipList, error) {
	// Listing for an unknown user should 404, not return empty lists.
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return domain.FriendshipList{}, err
	}
	return s.Store.Friendships().ListFriendships(ctx, userID)
}

// Request creates an unconfirmed edge from userID to friendID. The friend
// confirms it from their side.
func (s *FriendshipService) Request(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return invalid("friend_id", "cannot befriend yourself")
	}
	if _, err := s.Store.Users().GetUserByID(ctx, friendID); err != nil {
		return err
	}

	err := s.Store.Friendships().CreateFriendship(ctx, userID, friendID)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Requesting twice is harmless.
		return nil
	}
	return err
}

func (s *FriendshipService) Confirm(ctx context.Context, userID, friendID string) error {
	return s.Store.Friendships().ConfirmFriendship(ctx, userID, friendID)
}

func (s *FriendshipService) Remove(ctx context.Context, userID, friendID string) error {
	return s.Store.Friendships().DeleteFriendship(ctx, userID, friendID)
}
