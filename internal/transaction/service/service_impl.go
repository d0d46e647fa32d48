package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/clock"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  transactiondomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  transactiondomain.Repository
}

func NewService(p ServiceParam) transactiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("transaction.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Create implements domain.Service.
func (s *Service) Create(ctx context.Context, req transactiondomain.CreateTransactionRequest) (transactiondomain.Transaction, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return transactiondomain.Transaction{}, transactiondomain.ErrTransactionNotFound
	}
	if req.AmountMinor <= 0 {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidAmount
	}
	if !req.Kind.Valid() {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidKind
	}

	now := s.clock.Now()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	currency := req.Currency
	if currency == "" {
		currency = "GBP"
	}
	category := req.Category
	if category == "" {
		category = transactiondomain.Categorize(req.Description, req.Kind)
	}

	transaction := transactiondomain.Transaction{
		ID:          s.genID.Generate(),
		UserID:      userID,
		BusinessID:  req.BusinessID,
		OccurredAt:  occurredAt,
		Description: req.Description,
		AmountMinor: req.AmountMinor,
		Currency:    currency,
		Category:    category,
		Kind:        req.Kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &transaction); err != nil {
		return transactiondomain.Transaction{}, err
	}

	s.log.Debug("transaction recorded",
		zap.String("user_id", userID),
		zap.String("category", category),
		zap.String("kind", string(req.Kind)),
	)
	return transaction, nil
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context, req transactiondomain.ListTransactionsRequest) ([]transactiondomain.Transaction, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, transactiondomain.ErrTransactionNotFound
	}
	from, to := s.window(req.From, req.To)
	return s.repo.ListByUserID(ctx, s.db, userID, from, to)
}

// Delete implements domain.Service.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return transactiondomain.ErrTransactionNotFound
	}

	transaction, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if transaction == nil || transaction.UserID != userID {
		return transactiondomain.ErrTransactionNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

// SpendingByCategory implements domain.Service.
func (s *Service) SpendingByCategory(ctx context.Context, from, to time.Time) ([]transactiondomain.CategoryTotal, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, transactiondomain.ErrTransactionNotFound
	}
	from, to = s.window(from, to)
	return s.repo.TotalsByCategory(ctx, s.db, userID, transactiondomain.KindExpense, from, to)
}

// Totals implements domain.Service.
func (s *Service) Totals(ctx context.Context, from, to time.Time) (int64, int64, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return 0, 0, transactiondomain.ErrTransactionNotFound
	}
	from, to = s.window(from, to)

	income, err := s.repo.SumByKind(ctx, s.db, userID, transactiondomain.KindIncome, from, to)
	if err != nil {
		return 0, 0, err
	}
	expense, err := s.repo.SumByKind(ctx, s.db, userID, transactiondomain.KindExpense, from, to)
	if err != nil {
		return 0, 0, err
	}
	return income, expense, nil
}

// window fills empty bounds with the current calendar month (UTC).
func (s *Service) window(from, to time.Time) (time.Time, time.Time) {
	if !from.IsZero() && !to.IsZero() {
		return from, to
	}
	now := s.clock.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
