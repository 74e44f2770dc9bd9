package service

import (
	"context"
	"time"

	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// StatsService is the read side over the persisted aggregates. Stale data is
// always returned, flagged so the caller can offer a refresh.
type StatsService struct {
	matchRepo   *repository.MatchRepository
	summaryRepo *repository.SummaryRepository
	logger      zerolog.Logger
}

func NewStatsService(matchRepo *repository.MatchRepository, summaryRepo *repository.SummaryRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{matchRepo: matchRepo, summaryRepo: summaryRepo, logger: logger}
}

// CategorySummaryFor returns the mode distribution plus a staleness flag.
// repository.ErrNotAnalyzed passes through when no run has happened yet.
func (s *StatsService) CategorySummaryFor(ctx context.Context, userID int64) (*domain.CategorySummary, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	summary, err := s.summaryRepo.GetCategory(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	stale := isStale(summary.LastUpdated)
	s.logger.Debug().
		Int64("user_id", userID).
		Int("total_matches", summary.TotalMatches).
		Bool("stale", stale).
		Msg("category summary read")
	return summary, stale, nil
}

// DetailedSummaryFor returns the full aggregate plus a staleness flag.
func (s *StatsService) DetailedSummaryFor(ctx context.Context, userID int64) (*domain.DetailedSummary, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	summary, err := s.summaryRepo.GetDetailed(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return summary, isStale(summary.LastUpdated), nil
}

// RecentMatches lists cached match records, newest first, bounded.
func (s *StatsService) RecentMatches(ctx context.Context, userID int64, limit int) ([]domain.MatchRecord, error) {
	if limit <= 0 || limit > constants.RecentMatchLimit {
		limit = constants.RecentMatchLimit
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.ListRecent(ctx, userID, limit)
}

func isStale(lastUpdated time.Time) bool {
	return time.Since(lastUpdated) > constants.SummaryStaleAfter
}
