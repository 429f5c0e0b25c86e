package discount

import (
	"context"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type DiscountUseCase interface {
	Create(ctx context.Context, scheduleID int64, percentage float64) (*domain.Discount, error)
	List(ctx context.Context) ([]domain.DiscountDetail, error)
	Delete(ctx context.Context, discountID int64) error
}

// Invalidator drops cached search results that embed discounted prices.
type Invalidator interface {
	InvalidateSearch(ctx context.Context) error
}

type DiscountService struct {
	repo   repository.DiscountRepository
	cache  Invalidator
	logger logrus.FieldLogger
}

func NewDiscountService(repo repository.DiscountRepository, cache Invalidator, logger logrus.FieldLogger) *DiscountService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DiscountService{repo: repo, cache: cache, logger: logger}
}

func (s *DiscountService) Create(ctx context.Context, scheduleID int64, percentage float64) (*domain.Discount, error) {
	if scheduleID <= 0 {
		return nil, domain.Validation("schedule id is required")
	}
	if percentage <= 0 || percentage >= 100 {
		return nil, domain.Validation("discount percentage must be between 0 and 100")
	}

	d, err := s.repo.Create(ctx, scheduleID, percentage)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"discount_id": d.ID,
		"schedule_id": scheduleID,
		"percentage":  percentage,
	}).Info("discount created")
	s.invalidate(ctx)
	return d, nil
}

func (s *DiscountService) List(ctx context.Context) ([]domain.DiscountDetail, error) {
	return s.repo.ListActive(ctx)
}

func (s *DiscountService) Delete(ctx context.Context, discountID int64) error {
	if discountID <= 0 {
		return domain.Validation("discount id is required")
	}
	if err := s.repo.Deactivate(ctx, discountID); err != nil {
		return err
	}
	s.logger.WithField("discount_id", discountID).Info("discount deactivated")
	s.invalidate(ctx)
	return nil
}

func (s *DiscountService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSearch(ctx); err != nil {
		s.logger.WithError(err).Warn("search cache invalidation failed")
	}
}

var _ DiscountUseCase = (*DiscountService)(nil)
