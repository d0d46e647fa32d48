package report

import (
	"github.com/quidflow/quidflow/internal/report/repository"
	"github.com/quidflow/quidflow/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
