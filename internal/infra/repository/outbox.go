package repository

import (
	"context"
	"encoding/json"
	"time"

	"bookhold/internal/domain/notification"
	"bookhold/internal/infra"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxRepository persists notification events next to the state change
// that produced them. Append runs on the caller's transaction, so an event
// row commits if and only if the transition commits; delivery happens later
// and can fail without touching hold state.
type OutboxRepository struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func NewOutboxRepository(pool *pgxpool.Pool, clk clock.Clock) *OutboxRepository {
	return &OutboxRepository{pool: pool, clock: clk}
}

func (r *OutboxRepository) Append(ctx context.Context, event notification.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to encode event", err)
	}

	const stmt = `
INSERT INTO notification_outbox (id, hold_id, kind, payload, status, attempts, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'queued', 0, $5, $5)`

	now := r.clock.Now()
	if _, err := r.exec(ctx, stmt, uuid.New(), event.HoldID, event.Kind, payload, now); err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to append outbox event", err)
	}
	return nil
}

// ListPending claims up to limit queued rows. SKIP LOCKED lets multiple
// dispatcher instances poll without double-delivering within one round.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*queries.OutboxEntry, error) {
	const query = `
SELECT id, hold_id, kind, payload, attempts, status, last_error, created_at
FROM notification_outbox
WHERE status = 'queued'
ORDER BY created_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

	rows, err := r.query(ctx, query, limit)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to list pending events", err)
	}
	defer rows.Close()

	var entries []*queries.OutboxEntry
	for rows.Next() {
		entry, err := scanOutboxEntry(rows)
		if err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan outbox entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read outbox entries", err)
	}
	return entries, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const stmt = `
UPDATE notification_outbox
SET status = 'sent', attempts = attempts + 1, updated_at = $2
WHERE id = $1 AND status = 'queued'`

	if _, err := r.exec(ctx, stmt, id, r.clock.Now()); err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to mark event sent", err)
	}
	return nil
}

// MarkFailed bumps the attempt count and parks the row as failed once it
// exhausts maxAttempts; until then it stays queued for the next round.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string, maxAttempts int) error {
	const stmt = `
UPDATE notification_outbox
SET attempts = attempts + 1,
    last_error = $2,
    status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'queued' END,
    updated_at = $4
WHERE id = $1 AND status = 'queued'`

	if _, err := r.exec(ctx, stmt, id, reason, maxAttempts, r.clock.Now()); err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to mark event failed", err)
	}
	return nil
}

func scanOutboxEntry(row pgx.Row) (*queries.OutboxEntry, error) {
	var (
		entry     queries.OutboxEntry
		payload   []byte
		kind      string
		lastError *string
		createdAt time.Time
	)
	if err := row.Scan(&entry.ID, &entry.HoldID, &kind, &payload, &entry.Attempts, &entry.Status, &lastError, &createdAt); err != nil {
		return nil, err
	}

	var event notification.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}

	entry.Event = event
	entry.LastError = lastError
	entry.CreatedAt = createdAt
	return &entry, nil
}

func (r *OutboxRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OutboxRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
