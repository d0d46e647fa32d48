package insight

import (
	"github.com/quidflow/quidflow/internal/insight/repository"
	"github.com/quidflow/quidflow/internal/insight/service"
	"go.uber.org/fx"
)

var Module = fx.Module("insight.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
