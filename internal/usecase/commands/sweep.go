package commands

import (
	"context"
	"log/slog"

	"bookhold/internal/domain/notification"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/pkg/errs"

	"github.com/google/uuid"
)

type SweepResult struct {
	Scanned int
	Expired int
	Lost    int // holds another actor transitioned while the sweep ran
	Failed  int
}

type HoldSweeper interface {
	SweepExpired(ctx context.Context, batch int) (SweepResult, error)
}

type holdSweeperImpl struct {
	tx        TxManager
	holds     HoldRepository
	outbox    EventOutbox
	directory IdentityDirectory
	clock     clock.Clock
}

func NewHoldSweeper(
	tx TxManager,
	holds HoldRepository,
	outbox EventOutbox,
	directory IdentityDirectory,
	clk clock.Clock,
) HoldSweeper {
	return &holdSweeperImpl{
		tx:        tx,
		holds:     holds,
		outbox:    outbox,
		directory: directory,
		clock:     clk,
	}
}

// SweepExpired expires pending holds past their deadline. Each hold is
// handled in its own owner-scoped transaction: one failure never aborts the
// rest of the scan, and a responder racing the sweeper simply wins or loses
// that hold's row lock.
func (s *holdSweeperImpl) SweepExpired(ctx context.Context, batch int) (SweepResult, error) {
	now := s.clock.Now()

	candidates, err := s.holds.ListExpirable(ctx, now, batch)
	if err != nil {
		return SweepResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	result := SweepResult{Scanned: len(candidates)}
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		err := s.tx.WithOwnerTx(ctx, candidate.Target(), func(txCtx context.Context) error {
			fresh, err := s.holds.FindByIDForUpdate(txCtx, candidate.ID())
			if err != nil {
				return err
			}
			// Someone answered between the scan and the lock.
			if err := fresh.Expire(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
			if err := s.holds.Save(txCtx, fresh); err != nil {
				return err
			}

			snapshot := notification.NewEvent(
				fresh,
				notification.KindExpired,
				s.lookupParty(txCtx, fresh.Requester().ID, fresh.Requester().Role.String()),
				s.lookupParty(txCtx, fresh.Target().ID, fresh.Target().Role.String()),
				now,
			)
			return s.outbox.Append(txCtx, snapshot)
		})

		switch {
		case err == nil:
			result.Expired++
		case errs.Is(err, errs.ErrInvalidTransition):
			result.Lost++
		default:
			result.Failed++
			slog.Error("failed to sweep hold", "hold_id", candidate.ID(), "error", err)
		}
	}

	return result, nil
}

func (s *holdSweeperImpl) lookupParty(ctx context.Context, id uuid.UUID, role string) notification.Party {
	party, err := s.directory.Lookup(ctx, id, role)
	if err != nil {
		slog.Warn("identity lookup failed, using fallback snapshot", "party_id", id, "role", role, "error", err)
		return notification.Party{ID: id, Role: role, DisplayName: role + "/" + id.String()}
	}
	return party
}
