package bootstrap

import (
	"context"

	"bookhold/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		fx.Annotate(
			worker.NewSlogSender,
			fx.As(new(worker.Sender)),
		),
		worker.NewSweeper,
		worker.NewDispatcher,
	),
	fx.Invoke(startWorkers),
)

// startWorkers runs the sweeper and dispatcher loops for the lifetime of
// the app. Both stop through context cancellation on shutdown.
func startWorkers(lc fx.Lifecycle, sweeper *worker.Sweeper, dispatcher *worker.Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(ctx)
			go dispatcher.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
