package components

import (
	"bookhold/internal/infra/identity"
	repo_impl "bookhold/internal/infra/repository"
	"bookhold/internal/usecase/commands"
	"bookhold/internal/usecase/queries"
	"bookhold/internal/worker"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewTxManager,
			fx.As(new(commands.TxManager)),
		),
		fx.Annotate(
			repo_impl.NewSlotRepository,
			fx.As(new(commands.SlotRepository)),
			fx.As(new(queries.SlotReadRepository)),
		),
		fx.Annotate(
			repo_impl.NewHoldRepository,
			fx.As(new(commands.HoldRepository)),
			fx.As(new(queries.HoldReadRepository)),
		),
		fx.Annotate(
			repo_impl.NewOutboxRepository,
			fx.As(new(commands.EventOutbox)),
			fx.As(new(worker.OutboxSource)),
		),
		identity.NewNullDirectory,
	),
)
