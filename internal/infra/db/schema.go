package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the engine's DDL. Applied by the e2e harness and by deploy
// tooling; statements are idempotent so re-application is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS availability_slots (
    id          uuid PRIMARY KEY,
    owner_id    uuid NOT NULL,
    owner_role  text NOT NULL CHECK (owner_role IN ('guide', 'transport')),
    starts_at   timestamptz NOT NULL,
    ends_at     timestamptz NOT NULL,
    status      text NOT NULL CHECK (status IN ('available', 'blocked', 'unavailable')),
    created_at  timestamptz NOT NULL,
    updated_at  timestamptz NOT NULL,
    CHECK (ends_at > starts_at)
);

CREATE INDEX IF NOT EXISTS idx_slots_owner_window
    ON availability_slots (owner_id, owner_role, starts_at, ends_at);

CREATE TABLE IF NOT EXISTS booking_holds (
    id              uuid PRIMARY KEY,
    requester_id    uuid NOT NULL,
    requester_role  text NOT NULL CHECK (requester_role IN ('agency', 'dmc')),
    target_id       uuid NOT NULL,
    target_role     text NOT NULL CHECK (target_role IN ('guide', 'transport')),
    starts_at       timestamptz NOT NULL,
    ends_at         timestamptz NOT NULL,
    status          text NOT NULL CHECK (status IN ('pending', 'accepted', 'declined', 'expired', 'cancelled')),
    message         text NOT NULL DEFAULT '',
    job_reference   text NOT NULL DEFAULT '',
    blocked_slot_id uuid REFERENCES availability_slots (id),
    created_at      timestamptz NOT NULL,
    updated_at      timestamptz NOT NULL,
    expires_at      timestamptz NOT NULL,
    responded_at    timestamptz,
    CHECK (ends_at > starts_at)
);

CREATE INDEX IF NOT EXISTS idx_holds_target
    ON booking_holds (target_id, target_role, status);
CREATE INDEX IF NOT EXISTS idx_holds_requester
    ON booking_holds (requester_id, status);
CREATE INDEX IF NOT EXISTS idx_holds_expirable
    ON booking_holds (expires_at) WHERE status = 'pending';

CREATE TABLE IF NOT EXISTS notification_outbox (
    id          uuid PRIMARY KEY,
    hold_id     uuid NOT NULL,
    kind        text NOT NULL,
    payload     jsonb NOT NULL,
    status      text NOT NULL DEFAULT 'queued' CHECK (status IN ('queued', 'sent', 'failed')),
    attempts    int NOT NULL DEFAULT 0,
    last_error  text,
    created_at  timestamptz NOT NULL,
    updated_at  timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outbox_queued
    ON notification_outbox (created_at) WHERE status = 'queued';
`

func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
