package budget

import (
	"github.com/quidflow/quidflow/internal/budget/repository"
	"github.com/quidflow/quidflow/internal/budget/service"
	"go.uber.org/fx"
)

var Module = fx.Module("budget.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
