package bootstrap

import (
	"bookhold/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		holdConfig,
		dispatchConfig,
	),
)

func holdConfig(cfg config.Config) config.HoldConfig {
	return cfg.Hold
}

func dispatchConfig(cfg config.Config) config.DispatchConfig {
	return cfg.Dispatch
}
