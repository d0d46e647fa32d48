package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	"github.com/quidflow/quidflow/internal/providers/ocr"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"github.com/quidflow/quidflow/internal/vat"
	"github.com/quidflow/quidflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  businessdomain.Repository

	entitlementsvc entitlementdomain.Service
	usagesvc       usagedomain.Service
	transactionsvc transactiondomain.Service
	ocrProvider    ocr.Provider
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  businessdomain.Repository

	Entitlementsvc entitlementdomain.Service
	Usagesvc       usagedomain.Service
	Transactionsvc transactiondomain.Service
	OCRProvider    ocr.Provider
}

func NewService(p ServiceParam) businessdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("business.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		entitlementsvc: p.Entitlementsvc,
		usagesvc:       p.Usagesvc,
		transactionsvc: p.Transactionsvc,
		ocrProvider:    p.OCRProvider,
	}
}

// CreateBusiness implements domain.Service.
func (s *Service) CreateBusiness(ctx context.Context, req businessdomain.CreateBusinessRequest) (businessdomain.Business, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return businessdomain.Business{}, businessdomain.ErrBusinessNotFound
	}

	if err := s.requireFeature(ctx, tier.FeatureBusinessMode); err != nil {
		return businessdomain.Business{}, err
	}

	existing, err := s.repo.FindBusinessByUserID(ctx, s.db, userID)
	if err != nil {
		return businessdomain.Business{}, err
	}
	if existing != nil {
		return businessdomain.Business{}, businessdomain.ErrBusinessExists
	}

	now := s.clock.Now()
	business := businessdomain.Business{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Name:      req.Name,
		VATScheme: "standard",
		VATRate:   vat.StandardRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertBusiness(ctx, s.db, &business); err != nil {
		// user_id is unique; a racing create loses here.
		if db.IsDuplicateKeyErr(err) {
			return businessdomain.Business{}, businessdomain.ErrBusinessExists
		}
		return businessdomain.Business{}, err
	}

	s.log.Info("business created", zap.String("user_id", userID))
	return business, nil
}

// GetBusiness implements domain.Service.
func (s *Service) GetBusiness(ctx context.Context) (businessdomain.Business, error) {
	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return businessdomain.Business{}, err
	}
	return *business, nil
}

// UpdateVATConfig implements domain.Service.
func (s *Service) UpdateVATConfig(ctx context.Context, req businessdomain.VATConfigRequest) (businessdomain.Business, error) {
	if err := s.requireFeature(ctx, tier.FeatureVATCalculation); err != nil {
		return businessdomain.Business{}, err
	}
	if req.VATRate < 0 || req.VATRate > 100 {
		return businessdomain.Business{}, businessdomain.ErrInvalidVATRate
	}

	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return businessdomain.Business{}, err
	}

	scheme := req.VATScheme
	if scheme == "" {
		scheme = business.VATScheme
	}
	rate := req.VATRate
	if rate == 0 && !req.VATRegistered {
		rate = business.VATRate
	}

	now := s.clock.Now()
	patch := businessdomain.VATConfigPatch{
		ID:            business.ID,
		VATRegistered: req.VATRegistered,
		VATNumber:     req.VATNumber,
		VATScheme:     scheme,
		VATRate:       rate,
		UpdatedAt:     now,
	}
	if err := s.repo.UpdateVATConfig(ctx, s.db, patch); err != nil {
		return businessdomain.Business{}, err
	}

	business.VATRegistered = patch.VATRegistered
	business.VATNumber = patch.VATNumber
	business.VATScheme = patch.VATScheme
	business.VATRate = patch.VATRate
	business.UpdatedAt = now

	s.log.Info("vat config updated",
		zap.String("user_id", business.UserID),
		zap.Bool("vat_registered", business.VATRegistered),
	)
	return *business, nil
}

// GetVATReturn implements domain.Service. Gross transaction totals in
// the window are treated as VAT-inclusive at the business rate.
func (s *Service) GetVATReturn(ctx context.Context, req businessdomain.VATReturnRequest) (businessdomain.VATReturn, error) {
	if err := s.requireFeature(ctx, tier.FeatureVATCalculation); err != nil {
		return businessdomain.VATReturn{}, err
	}

	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return businessdomain.VATReturn{}, err
	}
	if !business.VATRegistered {
		return businessdomain.VATReturn{}, businessdomain.ErrNotVATRegistered
	}

	income, expense, err := s.transactionsvc.Totals(ctx, req.From, req.To)
	if err != nil {
		return businessdomain.VATReturn{}, err
	}

	summary, err := vat.Return(income, expense, business.VATRate)
	if err != nil {
		return businessdomain.VATReturn{}, err
	}
	return businessdomain.VATReturn{
		From:              req.From,
		To:                req.To,
		Rate:              business.VATRate,
		IncomeGrossMinor:  income,
		ExpenseGrossMinor: expense,
		ReturnSummary:     summary,
	}, nil
}

// CreateClient implements domain.Service.
func (s *Service) CreateClient(ctx context.Context, req businessdomain.CreateClientRequest) (businessdomain.Client, error) {
	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return businessdomain.Client{}, err
	}

	now := s.clock.Now()
	client := businessdomain.Client{
		ID:         s.genID.Generate(),
		BusinessID: business.ID,
		Name:       req.Name,
		Email:      req.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.InsertClient(ctx, s.db, &client); err != nil {
		return businessdomain.Client{}, err
	}
	return client, nil
}

// ListClients implements domain.Service.
func (s *Service) ListClients(ctx context.Context) ([]businessdomain.Client, error) {
	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListClients(ctx, s.db, business.ID)
}

// CreateProject implements domain.Service.
func (s *Service) CreateProject(ctx context.Context, req businessdomain.CreateProjectRequest) (businessdomain.Project, error) {
	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return businessdomain.Project{}, err
	}

	if req.ClientID != nil {
		client, err := s.repo.FindClientByID(ctx, s.db, *req.ClientID)
		if err != nil {
			return businessdomain.Project{}, err
		}
		if client == nil || client.BusinessID != business.ID {
			return businessdomain.Project{}, businessdomain.ErrClientNotFound
		}
	}

	now := s.clock.Now()
	project := businessdomain.Project{
		ID:              s.genID.Generate(),
		BusinessID:      business.ID,
		ClientID:        req.ClientID,
		Name:            req.Name,
		Status:          businessdomain.ProjectActive,
		HourlyRateMinor: req.HourlyRateMinor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertProject(ctx, s.db, &project); err != nil {
		return businessdomain.Project{}, err
	}
	return project, nil
}

// ListProjects implements domain.Service.
func (s *Service) ListProjects(ctx context.Context) ([]businessdomain.Project, error) {
	business, err := s.ownedBusiness(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProjects(ctx, s.db, business.ID)
}

// ScanReceipt implements domain.Service. The usage counter is bumped
// only after a successful extraction and insert.
func (s *Service) ScanReceipt(ctx context.Context, req businessdomain.ScanReceiptRequest) (businessdomain.Receipt, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return businessdomain.Receipt{}, businessdomain.ErrBusinessNotFound
	}

	if err := s.requireFeature(ctx, tier.FeatureReceiptOCR); err != nil {
		return businessdomain.Receipt{}, err
	}
	decision, err := s.entitlementsvc.CheckUsage(ctx, tier.LimitOCRScansPerMonth)
	if err != nil {
		return businessdomain.Receipt{}, err
	}
	if !decision.Allowed {
		return businessdomain.Receipt{}, decision.Denied()
	}

	extraction, err := s.ocrProvider.Extract(ctx, req.Image)
	if err != nil {
		return businessdomain.Receipt{}, err
	}

	var businessID *snowflake.ID
	if business, err := s.repo.FindBusinessByUserID(ctx, s.db, userID); err != nil {
		return businessdomain.Receipt{}, err
	} else if business != nil {
		businessID = &business.ID
	}

	now := s.clock.Now()
	currency := extraction.Currency
	if currency == "" {
		currency = "GBP"
	}
	receipt := businessdomain.Receipt{
		ID:          s.genID.Generate(),
		UserID:      userID,
		BusinessID:  businessID,
		Merchant:    extraction.Merchant,
		AmountMinor: extraction.AmountMinor,
		Currency:    currency,
		Category:    extraction.Category,
		RawText:     extraction.RawText,
		ScannedAt:   now,
		CreatedAt:   now,
	}
	if err := s.repo.InsertReceipt(ctx, s.db, &receipt); err != nil {
		return businessdomain.Receipt{}, err
	}

	if err := s.usagesvc.Increment(ctx, userID, tier.LimitOCRScansPerMonth); err != nil {
		return businessdomain.Receipt{}, err
	}

	s.log.Info("receipt scanned",
		zap.String("user_id", userID),
		zap.String("merchant", receipt.Merchant),
	)
	return receipt, nil
}

// ListReceipts implements domain.Service.
func (s *Service) ListReceipts(ctx context.Context) ([]businessdomain.Receipt, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, businessdomain.ErrBusinessNotFound
	}
	return s.repo.ListReceipts(ctx, s.db, userID)
}

func (s *Service) requireFeature(ctx context.Context, feature tier.Feature) error {
	decision, err := s.entitlementsvc.CheckFeature(ctx, feature)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.Denied()
	}
	return nil
}

func (s *Service) ownedBusiness(ctx context.Context) (*businessdomain.Business, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, businessdomain.ErrBusinessNotFound
	}
	business, err := s.repo.FindBusinessByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, businessdomain.ErrBusinessNotFound
	}
	return business, nil
}
