package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
	"github.com/quidflow/quidflow/internal/tier"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"github.com/quidflow/quidflow/internal/vat"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  invoicedomain.Repository

	entitlementsvc entitlementdomain.Service
	usagesvc       usagedomain.Service
	businesssvc    businessdomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  invoicedomain.Repository

	Entitlementsvc entitlementdomain.Service
	Usagesvc       usagedomain.Service
	Businesssvc    businessdomain.Service
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		entitlementsvc: p.Entitlementsvc,
		usagesvc:       p.Usagesvc,
		businesssvc:    p.Businesssvc,
	}
}

// Create implements domain.Service. Totals are computed from the line
// items; VAT is added at the business rate when it is VAT-registered.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	featureDecision, err := s.entitlementsvc.CheckFeature(ctx, tier.FeatureInvoiceManagement)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !featureDecision.Allowed {
		return invoicedomain.Invoice{}, featureDecision.Denied()
	}
	limitDecision, err := s.entitlementsvc.CheckUsage(ctx, tier.LimitInvoicesPerMonth)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !limitDecision.Allowed {
		return invoicedomain.Invoice{}, limitDecision.Denied()
	}

	business, err := s.businesssvc.GetBusiness(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	subtotal, err := subtotalOf(req.LineItems)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	rate := 0.0
	if business.VATRegistered {
		rate = business.VATRate
	}
	breakdown, err := vat.Calculate(subtotal, rate, false)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	items, err := json.Marshal(req.LineItems)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := s.clock.Now()
	invoice := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		BusinessID:    business.ID,
		ClientID:      req.ClientID,
		Status:        invoicedomain.StatusDraft,
		IssueDate:     now,
		DueDate:       req.DueDate,
		LineItems:     datatypes.JSON(items),
		SubtotalMinor: breakdown.NetMinor,
		VATMinor:      breakdown.VATMinor,
		TotalMinor:    breakdown.GrossMinor,
		Currency:      "GBP",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.repo.NextSeq(ctx, tx, business.ID, now.UTC().Year())
		if err != nil {
			return err
		}
		invoice.Number = fmt.Sprintf("INV-%d-%03d", now.UTC().Year(), seq)
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	if err := s.usagesvc.Increment(ctx, userID, tier.LimitInvoicesPerMonth); err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("user_id", userID),
		zap.String("number", invoice.Number),
		zap.Int64("total_minor", invoice.TotalMinor),
	)
	return invoice, nil
}

// Get implements domain.Service.
func (s *Service) Get(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	invoice, err := s.owned(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *invoice, nil
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context) ([]invoicedomain.Invoice, error) {
	business, err := s.businesssvc.GetBusiness(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByBusinessID(ctx, s.db, business.ID)
}

// UpdateStatus implements domain.Service.
func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, req invoicedomain.UpdateStatusRequest) (invoicedomain.Invoice, error) {
	invoice, err := s.owned(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !invoicedomain.CanTransition(invoice.Status, req.Status) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, s.db, invoice.ID, req.Status); err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoice.Status = req.Status
	invoice.UpdatedAt = s.clock.Now()

	s.log.Info("invoice status changed",
		zap.String("number", invoice.Number),
		zap.String("status", string(req.Status)),
	)
	return *invoice, nil
}

func (s *Service) owned(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	business, err := s.businesssvc.GetBusiness(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.BusinessID != business.ID {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func subtotalOf(items []invoicedomain.LineItem) (int64, error) {
	if len(items) == 0 {
		return 0, invoicedomain.ErrInvalidLineItems
	}
	var subtotal int64
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPriceMinor < 0 {
			return 0, invoicedomain.ErrInvalidLineItems
		}
		subtotal += item.Quantity * item.UnitPriceMinor
	}
	return subtotal, nil
}
