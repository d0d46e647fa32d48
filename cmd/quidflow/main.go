package main

import (
	"github.com/quidflow/quidflow/internal/clock"
	"github.com/quidflow/quidflow/internal/config"
	"github.com/quidflow/quidflow/internal/logger"
	"github.com/quidflow/quidflow/internal/migration"
	"github.com/quidflow/quidflow/internal/observability"
	"github.com/quidflow/quidflow/internal/server"
	"github.com/quidflow/quidflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		clock.Module,
		db.Module,
		migration.Module,

		// HTTP transport and domain services
		server.Module,
	)
	app.Run()
}
