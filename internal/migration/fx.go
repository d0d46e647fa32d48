package migration

import (
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	"github.com/quidflow/quidflow/internal/config"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres targets (local sqlite) fall back to AutoMigrate.
		return conn.AutoMigrate(
			&subscriptiondomain.Subscription{},
			&usagedomain.Counter{},
			&budgetdomain.Budget{},
			&budgetdomain.Goal{},
			&budgetdomain.AlertState{},
			&transactiondomain.Transaction{},
			&businessdomain.Business{},
			&businessdomain.Client{},
			&businessdomain.Project{},
			&businessdomain.Receipt{},
			&invoicedomain.Invoice{},
			&invoicedomain.Sequence{},
			&reportdomain.Report{},
			&insightdomain.Insight{},
		)
	}),
)
