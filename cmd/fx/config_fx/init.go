package config_fx

import (
	"go.uber.org/fx"

	"coursepick/internal/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() config.Config {
	cfg, _ := config.LoadWithDotEnv()
	return cfg
}
