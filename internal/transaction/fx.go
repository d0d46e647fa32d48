package transaction

import (
	"github.com/quidflow/quidflow/internal/transaction/repository"
	"github.com/quidflow/quidflow/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
