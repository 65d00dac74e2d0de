//go:build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/data"
	"github.com/gowvp/wink/internal/web/api"
)

func wireApp(bc *conf.Bootstrap, log *slog.Logger) (*App, func(), error) {
	panic(wire.Build(data.ProviderSet, api.ProviderVersionSet, api.ProviderSet, wire.Struct(new(App), "*")))
}
