package service

import (
	"context"

	"github.com/quidflow/quidflow/internal/clock"
	"github.com/quidflow/quidflow/internal/tier"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  usagedomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  usagedomain.Repository
}

func NewService(p ServiceParam) usagedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("usage.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Increment implements domain.Service.
func (s *Service) Increment(ctx context.Context, userID string, metric tier.Limit) error {
	now := s.clock.Now()
	err := s.repo.Increment(ctx, s.db, userID, metric, usagedomain.PeriodStart(now), 1, now)
	if err != nil {
		s.log.Error("usage increment failed",
			zap.String("user_id", userID),
			zap.String("metric", string(metric)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Current implements domain.Service.
func (s *Service) Current(ctx context.Context, userID string, metric tier.Limit) (int64, error) {
	return s.repo.Current(ctx, s.db, userID, metric, usagedomain.PeriodStart(s.clock.Now()))
}

// Snapshot implements domain.Service.
func (s *Service) Snapshot(ctx context.Context, userID string) (map[tier.Limit]int64, error) {
	return s.repo.Snapshot(ctx, s.db, userID, usagedomain.PeriodStart(s.clock.Now()))
}
