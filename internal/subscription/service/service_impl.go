package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/cache"
	"github.com/quidflow/quidflow/internal/clock"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
	"github.com/quidflow/quidflow/internal/usercontext"
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
	repo  subscriptiondomain.Repository

	resolverCache cache.AccessResolverCache
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  subscriptiondomain.Repository

	ResolverCache cache.AccessResolverCache `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		resolverCache: p.ResolverCache,
	}
}

// invalidate drops the gateway's cached record so a plan change is
// visible on the next access check instead of after the cache TTL.
func (s *Service) invalidate(userID string) {
	if s.resolverCache != nil {
		s.resolverCache.InvalidateUser(userID)
	}
}

// GetOrCreate implements domain.Service.
func (s *Service) GetOrCreate(ctx context.Context) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidUser
	}

	current, err := s.repo.FindCurrentByUserID(ctx, s.db, userID)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if current != nil {
		return *current, nil
	}

	record, err := s.buildRecord(userID, tier.Lowest().ID, subscriptiondomain.StatusActive)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	// The partial unique index turns a racing insert into a no-op; the
	// re-read below returns whichever record won.
	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	created, err := s.repo.FindCurrentByUserID(ctx, s.db, userID)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if created == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	s.log.Info("subscription created",
		zap.String("user_id", userID),
		zap.String("tier", string(created.Tier)),
	)
	return *created, nil
}

// ChangeTier implements domain.Service.
func (s *Service) ChangeTier(ctx context.Context, req subscriptiondomain.ChangeTierRequest) (subscriptiondomain.Subscription, error) {
	if !tier.IsValid(req.Tier) {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidTier
	}

	current, err := s.GetOrCreate(ctx)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	features, err := featureSnapshot(req.Tier)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	now := s.clock.Now()
	patch := subscriptiondomain.TierPatch{
		ID:        current.ID,
		Tier:      req.Tier,
		Features:  features,
		Status:    subscriptiondomain.StatusActive,
		UpdatedAt: now,
	}
	if err := s.repo.UpdateTier(ctx, s.db, patch); err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	// Usage counters deliberately carry over: a mid-period upgrade keeps
	// usage to date.
	current.Tier = req.Tier
	current.Features = features
	current.Status = subscriptiondomain.StatusActive
	current.UpdatedAt = now
	s.invalidate(current.UserID)

	s.log.Info("subscription tier changed",
		zap.String("user_id", current.UserID),
		zap.String("tier", string(req.Tier)),
	)
	return current, nil
}

// StartTrial implements domain.Service.
func (s *Service) StartTrial(ctx context.Context, req subscriptiondomain.StartTrialRequest) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidUser
	}

	trialDays, err := tier.TrialDays(req.Tier)
	if err != nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidTier
	}

	used, err := s.repo.HasTrialRecord(ctx, s.db, userID)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if used {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrTrialAlreadyUsed
	}

	now := s.clock.Now()
	endDate := now.AddDate(0, 0, trialDays)

	record, err := s.buildRecord(userID, req.Tier, subscriptiondomain.StatusTrial)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	record.Trial = true
	record.AutoRenew = false
	record.EndDate = &endDate

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Close out the current record first so the one-current-per-user
		// index admits the trial row.
		current, err := s.repo.FindCurrentByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != nil {
			if err := s.repo.MarkCancelled(ctx, tx, subscriptiondomain.CancelPatch{
				ID:         current.ID,
				Status:     subscriptiondomain.StatusCancelled,
				CanceledAt: now,
			}); err != nil {
				return err
			}
		}
		return s.repo.Insert(ctx, tx, record)
	})
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	s.invalidate(userID)

	s.log.Info("trial started",
		zap.String("user_id", userID),
		zap.String("tier", string(req.Tier)),
		zap.Int("days", trialDays),
	)
	return *record, nil
}

// Cancel implements domain.Service. The user is never left without a
// record: a fresh free-tier active one replaces the cancelled record.
func (s *Service) Cancel(ctx context.Context) (subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidUser
	}

	current, err := s.GetOrCreate(ctx)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	now := s.clock.Now()
	replacement, err := s.buildRecord(userID, tier.Lowest().ID, subscriptiondomain.StatusActive)
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.MarkCancelled(ctx, tx, subscriptiondomain.CancelPatch{
			ID:         current.ID,
			Status:     subscriptiondomain.StatusCancelled,
			CanceledAt: now,
		}); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, replacement)
	})
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	s.invalidate(userID)

	s.log.Info("subscription cancelled",
		zap.String("user_id", userID),
		zap.String("previous_tier", string(current.Tier)),
	)
	return *replacement, nil
}

// History implements domain.Service.
func (s *Service) History(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, subscriptiondomain.ErrInvalidUser
	}
	return s.repo.ListByUserID(ctx, s.db, userID)
}

func (s *Service) buildRecord(userID string, tierID tier.ID, status subscriptiondomain.Status) (*subscriptiondomain.Subscription, error) {
	features, err := featureSnapshot(tierID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	endDate := now.AddDate(1, 0, 0)
	return &subscriptiondomain.Subscription{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Tier:      tierID,
		Status:    status,
		Features:  features,
		StartDate: now,
		EndDate:   &endDate,
		AutoRenew: true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func featureSnapshot(tierID tier.ID) (datatypes.JSON, error) {
	t, err := tier.Get(tierID)
	if err != nil {
		return nil, subscriptiondomain.ErrInvalidTier
	}
	raw, err := json.Marshal(t.Features)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
