package service

import (
	"context"
	"testing"
	"time"

	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsFixture(t *testing.T) (*StatsService, *repository.SummaryRepository, *repository.MatchRepository) {
	t.Helper()
	db := newTestDB(t)
	logger := zerolog.Nop()
	matchRepo := repository.NewMatchRepository(db, logger)
	summaryRepo := repository.NewSummaryRepository(db, logger)
	return NewStatsService(matchRepo, summaryRepo, logger), summaryRepo, matchRepo
}

func TestCategorySummaryForPassesThroughNotAnalyzed(t *testing.T) {
	svc, _, _ := newStatsFixture(t)

	_, _, err := svc.CategorySummaryFor(context.Background(), 1)
	require.ErrorIs(t, err, repository.ErrNotAnalyzed)
}

func TestCategorySummaryForFlagsStaleData(t *testing.T) {
	svc, summaryRepo, _ := newStatsFixture(t)
	ctx := context.Background()

	require.NoError(t, summaryRepo.UpsertCategory(ctx, &domain.CategorySummary{
		UserID:       1,
		SR5v5Pct:     100,
		TotalMatches: 30,
		LastUpdated:  time.Now().Add(-constants.SummaryStaleAfter - time.Minute),
	}))
	summary, stale, err := svc.CategorySummaryFor(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, 100.0, summary.SR5v5Pct)

	require.NoError(t, summaryRepo.UpsertCategory(ctx, &domain.CategorySummary{
		UserID:       1,
		SR5v5Pct:     100,
		TotalMatches: 30,
		LastUpdated:  time.Now(),
	}))
	_, stale, err = svc.CategorySummaryFor(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestDetailedSummaryForFlagsFreshData(t *testing.T) {
	svc, summaryRepo, _ := newStatsFixture(t)
	ctx := context.Background()

	require.NoError(t, summaryRepo.UpsertDetailed(ctx, &domain.DetailedSummary{
		UserID:          1,
		Champions:       domain.FrequencyList{{Name: "Ashe", Count: 3}},
		MatchesAnalyzed: 3,
		LastUpdated:     time.Now(),
	}))
	summary, stale, err := svc.DetailedSummaryFor(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, 3, summary.MatchesAnalyzed)
}

func TestRecentMatchesClampsLimit(t *testing.T) {
	svc, _, matchRepo := newStatsFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < constants.RecentMatchLimit+5; i++ {
		_, err := matchRepo.InsertIgnore(ctx, &domain.MatchRecord{
			UserID:   1,
			MatchID:  "NA_" + string(rune('A'+i%26)) + string(rune('A'+i/26)),
			QueueID:  450,
			GameMode: "ARAM",
			Category: "ARAM",
			GameDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	matches, err := svc.RecentMatches(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, matches, constants.RecentMatchLimit)

	matches, err = svc.RecentMatches(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, matches, 5)
	assert.True(t, matches[0].GameDate.After(matches[4].GameDate))

	matches, err = svc.RecentMatches(ctx, 1, constants.RecentMatchLimit+100)
	require.NoError(t, err)
	assert.Len(t, matches, constants.RecentMatchLimit)
}
