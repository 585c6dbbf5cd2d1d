package ratings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/redis"
)

const summaryTTL = 30 * time.Second

// Service wraps the repository with a read-side cache for rating summaries.
// A nil cache degrades to database-only reads.
type Service struct {
	repo   *Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewService creates a ratings service.
func NewService(repo *Repository, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func summaryKey(eventID uuid.UUID) string {
	return "rating_summary:" + eventID.String()
}

// Rate upserts the rating and invalidates the cached summary.
func (s *Service) Rate(ctx context.Context, rating *models.Rating) error {
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, summaryKey(rating.EventID))
	}
	return nil
}

// Summary returns the per-event rating aggregate, cached briefly.
func (s *Service) Summary(ctx context.Context, eventID uuid.UUID) (*models.RatingSummary, error) {
	if s.cache != nil {
		var cached models.RatingSummary
		err := s.cache.GetJSON(ctx, summaryKey(eventID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("rating summary cache read", zap.Error(err))
		}
	}
	summary, err := s.repo.Summary(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, summaryKey(eventID), summary, summaryTTL); err != nil {
			s.logger.Warn("rating summary cache write", zap.Error(err))
		}
	}
	return summary, nil
}
