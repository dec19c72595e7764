package service

import (
	"context"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/idx"
)

type MiningSessionService struct {
	Store store.Store
}

// CreateSessionParams carries a session creation request. CreatorID comes
// from the authenticated caller, never the request body.
type CreateSessionParams struct {
	CreatorID    string
	Name         string
	UsersInvited []string
}

// UpdateSessionParams mirrors store.SessionUpdate plus wholesale invite
// replacement. Double pointers distinguish "leave alone" from "clear".
type UpdateSessionParams struct {
	Name         *string
	Archived     **time.Time
	YieldSCU     **float64
	YieldUEC     **float64
	UsersInvited []string
}

// EntryParams carries create/update input for a session entry.
type EntryParams struct {
	UserID    string
	StationID string
	OreID     string
	MethodID  string
	Quantity  float64
	Duration  float64
}

func (s *MiningSessionService) Create(ctx context.Context, p CreateSessionParams) (domain.MiningSession, error) {
	if err := validateName(p.Name); err != nil {
		return domain.MiningSession{}, err
	}

	session := domain.MiningSession{
		ID:      idx.New().String(),
		Creator: domain.Related{ID: p.CreatorID},
		Name:    p.Name,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.MiningSessions().CreateSession(ctx, session); err != nil {
			return err
		}
		if len(p.UsersInvited) > 0 {
			return tx.MiningSessions().ReplaceSessionInvites(ctx, session.ID, p.UsersInvited)
		}
		return nil
	})
	if err != nil {
		return domain.MiningSession{}, err
	}
	return s.Store.MiningSessions().GetSessionByID(ctx, session.ID)
}

func (s *MiningSessionService) Get(ctx context.Context, id string) (domain.MiningSession, error) {
	return s.Store.MiningSessions().GetSessionByID(ctx, id)
}

func (s *MiningSessionService) List(ctx context.Context, offset, limit int) ([]domain.MiningSessionListItem, int, error) {
	return s.Store.MiningSessions().ListSessions(ctx, offset, limit)
}

func (s *MiningSessionService) Update(ctx context.Context, id string, p UpdateSessionParams) (domain.MiningSession, error) {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return domain.MiningSession{}, err
		}
	}

	upd := store.SessionUpdate{
		Name:     p.Name,
		Archived: p.Archived,
		YieldSCU: p.YieldSCU,
		YieldUEC: p.YieldUEC,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.MiningSessions().UpdateSession(ctx, id, upd); err != nil {
			return err
		}
		if p.UsersInvited != nil {
			return tx.MiningSessions().ReplaceSessionInvites(ctx, id, p.UsersInvited)
		}
		return nil
	})
	if err != nil {
		return domain.MiningSession{}, err
	}
	return s.Store.MiningSessions().GetSessionByID(ctx, id)
}

func (s *MiningSessionService) Delete(ctx context.Context, id string) error {
	return s.Store.MiningSessions().DeleteSession(ctx, id)
}

func (s *MiningSessionService) ListEntries(ctx context.Context, sessionID string) ([]domain.MiningSessionEntry, error) {
	if _, err := s.Store.MiningSessions().GetSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.Store.MiningSessions().ListEntries(ctx, sessionID)
}

func (s *MiningSessionService) CreateEntry(ctx context.Context, sessionID string, p EntryParams) (domain.MiningSessionEntry, error) {
	if err := validateEntry(p); err != nil {
		return domain.MiningSessionEntry{}, err
	}
	if _, err := s.Store.MiningSessions().GetSessionByID(ctx, sessionID); err != nil {
		return domain.MiningSessionEntry{}, err
	}

	entry := domain.MiningSessionEntry{
		ID:        idx.New().String(),
		SessionID: sessionID,
		User:      domain.Related{ID: p.UserID},
		Station:   domain.Related{ID: p.StationID},
		Ore:       domain.Related{ID: p.OreID},
		Method:    domain.Related{ID: p.MethodID},
		Quantity:  p.Quantity,
		Duration:  p.Duration,
	}

	if err := s.Store.MiningSessions().CreateEntry(ctx, entry); err != nil {
		return domain.MiningSessionEntry{}, err
	}
	return s.Store.MiningSessions().GetEntryByID(ctx, entry.ID)
}

func (s *MiningSessionService) UpdateEntry(ctx context.Context, sessionID, entryID string, upd store.EntryUpdate) (domain.MiningSessionEntry, error) {
	if upd.Quantity != nil && *upd.Quantity <= 0 {
		return domain.MiningSessionEntry{}, invalid("quantity", "must be positive")
	}
	if upd.Duration != nil && *upd.Duration <= 0 {
		return domain.MiningSessionEntry{}, invalid("duration", "must be positive")
	}

	if err := s.requireEntryInSession(ctx, sessionID, entryID); err != nil {
		return domain.MiningSessionEntry{}, err
	}
	if err := s.Store.MiningSessions().UpdateEntry(ctx, entryID, upd); err != nil {
		return domain.MiningSessionEntry{}, err
	}
	return s.Store.MiningSessions().GetEntryByID(ctx, entryID)
}

func (s *MiningSessionService) DeleteEntry(ctx context.Context, sessionID, entryID string) error {
	if err := s.requireEntryInSession(ctx, sessionID, entryID); err != nil {
		return err
	}
	return s.Store.MiningSessions().DeleteEntry(ctx, entryID)
}

// requireEntryInSession rejects entry ids addressed through a session they do
// not belong to.
func (s *MiningSessionService) requireEntryInSession(ctx context.Context, sessionID, entryID string) error {
	entry, err := s.Store.MiningSessions().GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.SessionID != sessionID {
		return store.ErrNotFound
	}
	return nil
}

func validateEntry(p EntryParams) error {
	switch {
	case p.UserID == "":
		return invalid("user_id", "must not be empty")
	case p.StationID == "":
		return invalid("station_id", "must not be empty")
	case p.OreID == "":
		return invalid("ore_id", "must not be empty")
	case p.MethodID == "":
		return invalid("method_id", "must not be empty")
	case p.Quantity <= 0:
		return invalid("quantity", "must be positive")
	case p.Duration <= 0:
		return invalid("duration", "must be positive")
	}
	return nil
}
