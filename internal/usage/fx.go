package usage

import (
	"github.com/quidflow/quidflow/internal/usage/repository"
	"github.com/quidflow/quidflow/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
