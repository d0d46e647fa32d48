package invoice

import (
	"github.com/quidflow/quidflow/internal/invoice/repository"
	"github.com/quidflow/quidflow/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
