package service

import (
	"context"
	"testing"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/stretchr/testify/require"
)

func TestMiningSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MiningSessionService{Store: st}

	alice := seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", nil)
	bob := seedUser(t, st, "bob", "bob@example.com", "hunter2hunter2", nil)

	session, err := svc.Create(ctx, CreateSessionParams{
		CreatorID:    alice.ID,
		Name:         "Aaron Halo run",
		UsersInvited: []string{bob.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "alice", session.Creator.Name)
	require.Len(t, session.UsersInvited, 1)
	require.Equal(t, "bob", session.UsersInvited[0].Name)
	require.Nil(t, session.Archived)

	t.Run("list projection carries counts", func(t *testing.T) {
		items, total, err := svc.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Equal(t, 1, items[0].UsersInvitedCount)
		require.Equal(t, 0, items[0].EntriesCount)
	})

	t.Run("update sets yields and archives", func(t *testing.T) {
		archived := time.Now().UTC()
		archivedPtr := &archived
		scu := 123.4
		scuPtr := &scu

		updated, err := svc.Update(ctx, session.ID, UpdateSessionParams{
			Archived: &archivedPtr,
			YieldSCU: &scuPtr,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Archived)
		require.NotNil(t, updated.YieldSCU)
		require.InDelta(t, 123.4, *updated.YieldSCU, 1e-9)
		require.Nil(t, updated.YieldUEC)
	})

	t.Run("update can clear a nullable field", func(t *testing.T) {
		var clear *time.Time
		updated, err := svc.Update(ctx, session.ID, UpdateSessionParams{Archived: &clear})
		require.NoError(t, err)
		require.Nil(t, updated.Archived)
	})

	t.Run("invites are replaced wholesale", func(t *testing.T) {
		carol := seedUser(t, st, "carol", "carol@example.com", "hunter2hunter2", nil)

		updated, err := svc.Update(ctx, session.ID, UpdateSessionParams{
			UsersInvited: []string{carol.ID},
		})
		require.NoError(t, err)
		require.Len(t, updated.UsersInvited, 1)
		require.Equal(t, carol.ID, updated.UsersInvited[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, session.ID))
		_, err := svc.Get(ctx, session.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMiningSessionEntries(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MiningSessionService{Store: st}

	alice := seedUser(t, st, "alice", "alice@example.com", "hunter2hunter2", nil)
	ore := seedOre(t, st, "Quantainium")

	stationSvc := &StationService{Store: st}
	station, err := stationSvc.Create(ctx, StationParams{Name: "ARC-L1"})
	require.NoError(t, err)

	methodSvc := &MethodService{Store: st}
	method, err := methodSvc.Create(ctx, MethodParams{
		Name: "Dinyx Solventation",
		Efficiencies: []domain.MethodEfficiency{
			{OreID: ore.ID, Efficiency: 0.99, Duration: 45},
		},
	})
	require.NoError(t, err)

	session, err := svc.Create(ctx, CreateSessionParams{CreatorID: alice.ID, Name: "Halo run"})
	require.NoError(t, err)

	params := EntryParams{
		UserID:    alice.ID,
		StationID: station.ID,
		OreID:     ore.ID,
		MethodID:  method.ID,
		Quantity:  32.5,
		Duration:  45,
	}

	entry, err := svc.CreateEntry(ctx, session.ID, params)
	require.NoError(t, err)
	require.Equal(t, session.ID, entry.SessionID)
	require.Equal(t, "alice", entry.User.Name)
	require.Equal(t, "ARC-L1", entry.Station.Name)
	require.Equal(t, "Quantainium", entry.Ore.Name)

	t.Run("entry count shows in the session list", func(t *testing.T) {
		items, _, err := svc.List(ctx, 0, 10)
		require.NoError(t, err)
		require.Equal(t, 1, items[0].EntriesCount)
	})

	t.Run("entries for the session", func(t *testing.T) {
		entries, err := svc.ListEntries(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("entry for an unknown session", func(t *testing.T) {
		_, err := svc.CreateEntry(ctx, "01J00000000000000000000000", params)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		bad := params
		bad.Quantity = 0
		_, err := svc.CreateEntry(ctx, session.ID, bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("partial update", func(t *testing.T) {
		qty := 40.0
		updated, err := svc.UpdateEntry(ctx, session.ID, entry.ID, store.EntryUpdate{Quantity: &qty})
		require.NoError(t, err)
		require.InDelta(t, 40.0, updated.Quantity, 1e-9)
		require.InDelta(t, 45.0, updated.Duration, 1e-9)
	})

	t.Run("entry is not reachable through another session", func(t *testing.T) {
		other, err := svc.Create(ctx, CreateSessionParams{CreatorID: alice.ID, Name: "Decoy run"})
		require.NoError(t, err)

		qty := 1.0
		_, err = svc.UpdateEntry(ctx, other.ID, entry.ID, store.EntryUpdate{Quantity: &qty})
		require.ErrorIs(t, err, store.ErrNotFound)

		require.ErrorIs(t, svc.DeleteEntry(ctx, other.ID, entry.ID), store.ErrNotFound)

		kept, err := svc.ListEntries(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, kept, 1)
	})

	t.Run("delete entry", func(t *testing.T) {
		require.NoError(t, svc.DeleteEntry(ctx, session.ID, entry.ID))
		entries, err := svc.ListEntries(ctx, session.ID)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}
