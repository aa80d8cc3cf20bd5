package repository

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"

	"bookhold/internal/domain/availability"
	"bookhold/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

func contextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxManager serializes conflict-check-and-mutate sections per owner.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithOwnerTx runs fn inside a transaction holding an advisory lock scoped
// to the owner. The lock makes the overlap check and the subsequent
// hold/slot writes one logical unit: two concurrent writers for the same
// provider serialize here, and the second sees the first's committed rows.
// The lock is released automatically at commit/rollback.
func (m *TxManager) WithOwnerTx(ctx context.Context, owner availability.Owner, fn func(ctx context.Context) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to begin transaction", err)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ownerLockKey(owner)); err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to acquire owner lock", err)
	}

	if err := fn(contextWithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to commit transaction", err)
	}

	return nil
}

// ownerLockKey hashes (ownerID, ownerRole) to the 64-bit key space
// pg_advisory_xact_lock expects. Collisions only cost extra serialization,
// never correctness.
func ownerLockKey(owner availability.Owner) int64 {
	h := fnv.New64a()
	h.Write(owner.ID[:])
	h.Write([]byte(owner.Role))
	return int64(h.Sum64())
}
