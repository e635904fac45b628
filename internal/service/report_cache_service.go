package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/models"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
)

const latestReportKey = "assignment:run:latest"

// ReportCacheRepository abstracts persistence for cached run reports.
type ReportCacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReportCacheService keeps the most recent run report available for display
// without re-running the pipeline. Cache failures are logged and swallowed:
// the report cache is a convenience, never a source of truth.
type ReportCacheService struct {
	repo    ReportCacheRepository
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewReportCacheService constructs a report cache service.
func NewReportCacheService(repo ReportCacheRepository, ttl time.Duration, logger *zap.Logger, enabled bool) *ReportCacheService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCacheService{repo: repo, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *ReportCacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// StoreLatest caches the report as the most recent run.
func (s *ReportCacheService) StoreLatest(ctx context.Context, report *models.RunReport) {
	if !s.Enabled() || report == nil {
		return
	}
	if err := s.repo.Set(ctx, latestReportKey, report, s.ttl); err != nil {
		s.logger.Warn("failed to cache run report", zap.String("run_id", report.RunID), zap.Error(err))
	}
}

// Latest returns the most recent cached report, if any.
func (s *ReportCacheService) Latest(ctx context.Context) (*models.RunReport, bool, error) {
	if !s.Enabled() {
		return nil, false, nil
	}
	var report models.RunReport
	if err := s.repo.Get(ctx, latestReportKey, &report); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &report, true, nil
}
