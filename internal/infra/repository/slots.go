package repository

import (
	"context"
	"errors"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// ListForRange returns every slot of the owner overlapping [from, to) using
// the half-open rule: starts_at < to AND ends_at > from.
func (r *SlotRepository) ListForRange(ctx context.Context, owner availability.Owner, from, to time.Time) ([]*availability.Slot, error) {
	const query = `
SELECT id, owner_id, owner_role, starts_at, ends_at, status, created_at, updated_at
FROM availability_slots
WHERE owner_id = $1 AND owner_role = $2 AND starts_at < $3 AND ends_at > $4
ORDER BY starts_at`

	rows, err := r.query(ctx, query, owner.ID, owner.Role, to, from)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to list slots", err)
	}
	defer rows.Close()

	var slots []*availability.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read slots", err)
	}
	return slots, nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.Slot, error) {
	const query = `
SELECT id, owner_id, owner_role, starts_at, ends_at, status, created_at, updated_at
FROM availability_slots
WHERE id = $1`

	slot, err := scanSlot(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "slot not found", err)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to find slot", err)
	}
	return slot, nil
}

// Upsert is an idempotent create-or-replace by id.
func (r *SlotRepository) Upsert(ctx context.Context, slot *availability.Slot) error {
	const stmt = `
INSERT INTO availability_slots (id, owner_id, owner_role, starts_at, ends_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE
SET starts_at = EXCLUDED.starts_at,
    ends_at = EXCLUDED.ends_at,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

	_, err := r.exec(ctx, stmt,
		slot.ID(),
		slot.Owner().ID,
		slot.Owner().Role,
		slot.Window().Start(),
		slot.Window().End(),
		slot.Status(),
		slot.CreatedAt(),
		slot.UpdatedAt(),
	)
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to upsert slot", err)
	}
	return nil
}

// Create inserts a new slot and fails on id collision. Used for the blocked
// slots hold acceptance derives.
func (r *SlotRepository) Create(ctx context.Context, slot *availability.Slot) error {
	const stmt = `
INSERT INTO availability_slots (id, owner_id, owner_role, starts_at, ends_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		slot.ID(),
		slot.Owner().ID,
		slot.Owner().Role,
		slot.Window().Start(),
		slot.Window().End(),
		slot.Status(),
		slot.CreatedAt(),
		slot.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.NewRepoErr(infra.KindConflict, "slot already exists", err)
		}
		return infra.NewRepoErr(infra.KindDBFailure, "failed to create slot", err)
	}
	return nil
}

// Remove deletes a slot by id. Absent ids are a no-op so release paths stay
// idempotent; a slot still referenced by a hold is protected by the foreign
// key and surfaces as KindReferenced.
func (r *SlotRepository) Remove(ctx context.Context, id uuid.UUID) error {
	const stmt = `DELETE FROM availability_slots WHERE id = $1`

	_, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.NewRepoErr(infra.KindReferenced, "slot referenced by hold", err)
		}
		return infra.NewRepoErr(infra.KindDBFailure, "failed to remove slot", err)
	}
	return nil
}

func scanSlot(row pgx.Row) (*availability.Slot, error) {
	var (
		id                   uuid.UUID
		ownerID              uuid.UUID
		ownerRole            string
		startsAt, endsAt     time.Time
		status               string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &ownerRole, &startsAt, &endsAt, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	owner := availability.Owner{ID: ownerID, Role: availability.OwnerRole(ownerRole)}
	window, err := availability.NewWindow(startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	return availability.ReconstructSlot(id, owner, window, availability.Status(status), createdAt, updatedAt), nil
}

func (r *SlotRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SlotRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *SlotRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
