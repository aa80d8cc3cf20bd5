package repository

import (
	"context"
	"errors"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const holdColumns = `id, requester_id, requester_role, target_id, target_role,
starts_at, ends_at, status, message, job_reference, blocked_slot_id,
created_at, updated_at, expires_at, responded_at`

type HoldRepository struct {
	pool *pgxpool.Pool
}

func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

func (r *HoldRepository) Create(ctx context.Context, h *hold.Hold) error {
	const stmt = `
INSERT INTO booking_holds (id, requester_id, requester_role, target_id, target_role,
    starts_at, ends_at, status, message, job_reference, blocked_slot_id,
    created_at, updated_at, expires_at, responded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.exec(ctx, stmt,
		h.ID(),
		h.Requester().ID,
		h.Requester().Role,
		h.Target().ID,
		h.Target().Role,
		h.Window().Start(),
		h.Window().End(),
		h.Status(),
		h.Message(),
		h.JobReference(),
		h.BlockedSlotID(),
		h.CreatedAt(),
		h.UpdatedAt(),
		h.ExpiresAt(),
		h.RespondedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.NewRepoErr(infra.KindConflict, "hold already exists", err)
		}
		return infra.NewRepoErr(infra.KindDBFailure, "failed to create hold", err)
	}
	return nil
}

func (r *HoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate row-locks the hold for the rest of the transaction so
// a responder and the sweeper cannot both transition it.
func (r *HoldRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*hold.Hold, error) {
	return r.findByID(ctx, id, true)
}

func (r *HoldRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*hold.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM booking_holds WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	h, err := scanHold(r.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "hold not found", err)
		}
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to find hold", err)
	}
	return h, nil
}

// Save persists the hold's current state. The WHERE guard refuses to move a
// hold that has already left pending, so even without the owner lock a lost
// race surfaces as KindConflict instead of a silent double transition.
func (r *HoldRepository) Save(ctx context.Context, h *hold.Hold) error {
	const stmt = `
UPDATE booking_holds
SET status = $2, blocked_slot_id = $3, updated_at = $4, responded_at = $5
WHERE id = $1 AND (status = 'pending' OR status = $2)`

	tag, err := r.exec(ctx, stmt, h.ID(), h.Status(), h.BlockedSlotID(), h.UpdatedAt(), h.RespondedAt())
	if err != nil {
		return infra.NewRepoErr(infra.KindDBFailure, "failed to save hold", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "hold transitioned concurrently", nil)
	}
	return nil
}

// ListExpirable finds pending holds whose deadline has passed, oldest first.
func (r *HoldRepository) ListExpirable(ctx context.Context, now time.Time, limit int) ([]*hold.Hold, error) {
	query := `SELECT ` + holdColumns + `
FROM booking_holds
WHERE status = 'pending' AND expires_at <= $1
ORDER BY expires_at
LIMIT $2`

	return r.list(ctx, query, now, limit)
}

// ListByParty returns every hold the party is on either side of, newest first.
func (r *HoldRepository) ListByParty(ctx context.Context, partyID uuid.UUID) ([]*hold.Hold, error) {
	query := `SELECT ` + holdColumns + `
FROM booking_holds
WHERE requester_id = $1 OR target_id = $1
ORDER BY created_at DESC`

	return r.list(ctx, query, partyID)
}

func (r *HoldRepository) list(ctx context.Context, query string, args ...any) ([]*hold.Hold, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to list holds", err)
	}
	defer rows.Close()

	var holds []*hold.Hold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to scan hold", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "failed to read holds", err)
	}
	return holds, nil
}

func scanHold(row pgx.Row) (*hold.Hold, error) {
	var (
		id            uuid.UUID
		requesterID   uuid.UUID
		requesterRole string
		targetID      uuid.UUID
		targetRole    string
		startsAt      time.Time
		endsAt        time.Time
		status        string
		message       string
		jobReference  string
		blockedSlotID *uuid.UUID
		createdAt     time.Time
		updatedAt     time.Time
		expiresAt     time.Time
		respondedAt   *time.Time
	)
	err := row.Scan(&id, &requesterID, &requesterRole, &targetID, &targetRole,
		&startsAt, &endsAt, &status, &message, &jobReference, &blockedSlotID,
		&createdAt, &updatedAt, &expiresAt, &respondedAt)
	if err != nil {
		return nil, err
	}

	window, err := availability.NewWindow(startsAt, endsAt)
	if err != nil {
		return nil, err
	}

	return hold.Reconstruct(
		id,
		hold.Requester{ID: requesterID, Role: hold.RequesterRole(requesterRole)},
		availability.Owner{ID: targetID, Role: availability.OwnerRole(targetRole)},
		window,
		hold.Status(status),
		message,
		jobReference,
		blockedSlotID,
		createdAt,
		updatedAt,
		expiresAt,
		respondedAt,
	), nil
}

func (r *HoldRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *HoldRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *HoldRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
