package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quidflow/quidflow/internal/budget"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	"github.com/quidflow/quidflow/internal/business"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	"github.com/quidflow/quidflow/internal/cache"
	"github.com/quidflow/quidflow/internal/config"
	"github.com/quidflow/quidflow/internal/entitlement"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	"github.com/quidflow/quidflow/internal/insight"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	"github.com/quidflow/quidflow/internal/invoice"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
	"github.com/quidflow/quidflow/internal/observability"
	"github.com/quidflow/quidflow/internal/providers"
	"github.com/quidflow/quidflow/internal/report"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	"github.com/quidflow/quidflow/internal/subscription"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/transaction"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/usage"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	cache.Module,
	providers.Module,
	subscription.Module,
	usage.Module,
	entitlement.Module,
	transaction.Module,
	budget.Module,
	business.Module,
	invoice.Module,
	report.Module,
	insight.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *observability.HTTPMetrics, metrics *observability.Metrics, log *zap.Logger) *gin.Engine {
	if obsCfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinRequestID())
	r.Use(observability.GinLogging(log))
	r.Use(observability.GinTracing())
	r.Use(observability.GinMetrics(httpMetrics))
	r.Use(ErrorHandlingMiddleware(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	metrics *observability.Metrics

	subscriptionSvc subscriptiondomain.Service
	usageSvc        usagedomain.Service
	entitlementSvc  entitlementdomain.Service
	transactionSvc  transactiondomain.Service
	budgetSvc       budgetdomain.Service
	businessSvc     businessdomain.Service
	invoiceSvc      invoicedomain.Service
	reportSvc       reportdomain.Service
	insightSvc      insightdomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics

	SubscriptionSvc subscriptiondomain.Service
	UsageSvc        usagedomain.Service
	EntitlementSvc  entitlementdomain.Service
	TransactionSvc  transactiondomain.Service
	BudgetSvc       budgetdomain.Service
	BusinessSvc     businessdomain.Service
	InvoiceSvc      invoicedomain.Service
	ReportSvc       reportdomain.Service
	InsightSvc      insightdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		log:     p.Log.Named("http.server"),
		metrics: p.Metrics,

		subscriptionSvc: p.SubscriptionSvc,
		usageSvc:        p.UsageSvc,
		entitlementSvc:  p.EntitlementSvc,
		transactionSvc:  p.TransactionSvc,
		budgetSvc:       p.BudgetSvc,
		businessSvc:     p.BusinessSvc,
		invoiceSvc:      p.InvoiceSvc,
		reportSvc:       p.ReportSvc,
		insightSvc:      p.InsightSvc,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterAPIRoutes mounts the versioned API. The tier catalog is
// public; everything else acts on behalf of the authenticated user.
func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Tier catalog --------
	api.GET("/tiers", s.ListTiers)
	api.GET("/tiers/:id", s.GetTierByID)

	authed := api.Group("", s.UserAuthRequired())

	// -------- Subscription --------
	authed.GET("/subscription", s.GetSubscription)
	authed.GET("/subscription/history", s.GetSubscriptionHistory)
	authed.GET("/subscription/upgrade", s.GetUpgradePath)
	authed.POST("/subscription/change", s.ChangeTier)
	authed.POST("/subscription/trial", s.StartTrial)
	authed.POST("/subscription/cancel", s.CancelSubscription)

	// -------- Access gateway --------
	authed.GET("/access", s.GetAccessSummary)
	authed.GET("/access/features/:feature", s.CheckFeature)
	authed.GET("/access/limits/:limit", s.CheckLimit)
	authed.GET("/usage", s.GetUsage)

	// -------- Transactions --------
	authed.POST("/transactions", s.CreateTransaction)
	authed.GET("/transactions", s.ListTransactions)
	authed.DELETE("/transactions/:id", s.DeleteTransaction)
	authed.GET("/transactions/spending", s.GetSpendingByCategory)
	authed.GET("/transactions/totals", s.GetTotals)

	// -------- Budgets and goals --------
	authed.POST("/budgets", s.CreateBudget)
	authed.GET("/budgets", s.ListBudgets)
	authed.DELETE("/budgets/:id", s.DeleteBudget)
	authed.GET("/budgets/summary", s.GetBudgetSummary)
	authed.GET("/budgets/alerts", s.ListBudgetAlerts)
	authed.POST("/budgets/alerts/:id/read", s.MarkBudgetAlertRead)
	authed.POST("/budgets/alerts/:id/dismiss", s.DismissBudgetAlert)
	authed.POST("/goals", s.CreateGoal)
	authed.GET("/goals", s.ListGoals)
	authed.POST("/goals/:id/contribute", s.ContributeToGoal)
	authed.DELETE("/goals/:id", s.DeleteGoal)

	// -------- Business --------
	authed.POST("/business", s.CreateBusiness)
	authed.GET("/business", s.GetBusiness)
	authed.PUT("/business/vat", s.UpdateVATConfig)
	authed.GET("/business/vat-return", s.GetVATReturn)
	authed.POST("/business/clients", s.CreateClient)
	authed.GET("/business/clients", s.ListClients)
	authed.POST("/business/projects", s.CreateProject)
	authed.GET("/business/projects", s.ListProjects)
	authed.POST("/business/receipts", s.ScanReceipt)
	authed.GET("/business/receipts", s.ListReceipts)

	// -------- Invoices --------
	authed.POST("/invoices", s.CreateInvoice)
	authed.GET("/invoices", s.ListInvoices)
	authed.GET("/invoices/:id", s.GetInvoiceByID)
	authed.POST("/invoices/:id/status", s.UpdateInvoiceStatus)

	// -------- Reports --------
	authed.POST("/reports", s.GenerateReport)
	authed.GET("/reports", s.ListReports)
	authed.GET("/reports/:id", s.GetReportByID)

	// -------- Insights --------
	authed.POST("/insights/query", s.QueryInsight)
	authed.POST("/insights/generate", s.GenerateInsights)
	authed.POST("/insights/forecast", s.ForecastCashflow)
	authed.GET("/insights", s.ListInsights)
	authed.DELETE("/insights/:id", s.DismissInsight)
}
