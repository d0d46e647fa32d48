package business

import (
	"github.com/quidflow/quidflow/internal/business/repository"
	"github.com/quidflow/quidflow/internal/business/service"
	"go.uber.org/fx"
)

var Module = fx.Module("business.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
