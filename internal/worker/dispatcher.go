package worker

import (
	"context"
	"log/slog"
	"time"

	"bookhold/internal/domain/notification"
	"bookhold/internal/pkg/config"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

// Sender is the outbound delivery channel: email service, push gateway,
// in-app inbox. Implementations must tolerate redelivery; the outbox gives
// at-least-once semantics, not exactly-once.
type Sender interface {
	Send(ctx context.Context, event notification.Event) error
}

// OutboxSource is the dispatcher's view of the persisted event queue.
type OutboxSource interface {
	ListPending(ctx context.Context, limit int) ([]*queries.OutboxEntry, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, maxAttempts int) error
}

// Dispatcher drains the notification outbox. A failed send is recorded and
// retried on a later round; it never propagates back to the transition that
// queued the event.
type Dispatcher struct {
	outbox      OutboxSource
	sender      Sender
	interval    time.Duration
	batch       int
	maxAttempts int
	logger      *slog.Logger
}

func NewDispatcher(cfg config.DispatchConfig, outbox OutboxSource, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		outbox:      outbox,
		sender:      sender,
		interval:    cfg.Interval,
		batch:       cfg.Batch,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("dispatcher started", "interval", d.interval, "batch", d.batch)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped")
			return
		case <-ticker.C:
			d.DispatchOnce(ctx)
		}
	}
}

// DispatchOnce drains one batch. Per-event errors are independent: one
// undeliverable event does not block the rest of the batch.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (sent, failed int) {
	entries, err := d.outbox.ListPending(ctx, d.batch)
	if err != nil {
		d.logger.Error("failed to list pending events", "error", err)
		return 0, 0
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return sent, failed
		}

		if err := d.sender.Send(ctx, entry.Event); err != nil {
			failed++
			d.logger.Warn("notification delivery failed",
				"event_id", entry.ID,
				"hold_id", entry.HoldID,
				"kind", entry.Event.Kind,
				"attempts", entry.Attempts+1,
				"error", err,
			)
			if markErr := d.outbox.MarkFailed(ctx, entry.ID, err.Error(), d.maxAttempts); markErr != nil {
				d.logger.Error("failed to record delivery failure", "event_id", entry.ID, "error", markErr)
			}
			continue
		}

		sent++
		if err := d.outbox.MarkSent(ctx, entry.ID); err != nil {
			d.logger.Error("failed to mark event sent", "event_id", entry.ID, "error", err)
		}
	}

	if sent > 0 || failed > 0 {
		d.logger.Info("dispatch round completed", "sent", sent, "failed", failed)
	}
	return sent, failed
}

// SlogSender writes deliveries to the log. Stands in for a real channel in
// development and keeps the delivery path observable in tests.
type SlogSender struct {
	logger *slog.Logger
}

func NewSlogSender(logger *slog.Logger) *SlogSender {
	return &SlogSender{logger: logger}
}

func (s *SlogSender) Send(_ context.Context, event notification.Event) error {
	recipient := event.Recipient()
	s.logger.Info("notification delivered",
		"hold_id", event.HoldID,
		"kind", event.Kind,
		"recipient", recipient.DisplayName,
		"contact", recipient.Contact,
		"window_start", event.WindowStart,
		"window_end", event.WindowEnd,
	)
	return nil
}
