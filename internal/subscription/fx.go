package subscription

import (
	"github.com/quidflow/quidflow/internal/subscription/repository"
	"github.com/quidflow/quidflow/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
