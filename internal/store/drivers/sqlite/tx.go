package sqlite

import (
	"context"
	"database/sql"

	"github.com/screfinery/screfinery/internal/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t *txStore) Friendships() store.Friendships       { return &friendshipsRepo{db: t.tx} }
func (t *txStore) Ores() store.Ores                     { return &oresRepo{db: t.tx} }
func (t *txStore) Stations() store.Stations             { return &stationsRepo{db: t.tx} }
func (t *txStore) Methods() store.Methods               { return &methodsRepo{db: t.tx} }
func (t *txStore) MiningSessions() store.MiningSessions { return &miningSessionsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations should be applied before starting a tx
