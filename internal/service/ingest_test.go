package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/database"
	"league-tracker/internal/domain"
	"league-tracker/internal/modes"
	"league-tracker/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMatchAPI serves canned payloads and counts detail calls, so tests can
// assert how often the pipeline actually goes upstream.
type fakeMatchAPI struct {
	mu      sync.Mutex
	ids     []string
	matches map[string]*api.Match

	listErr   error
	detailErr map[string]error

	detailCalls int
}

func (f *fakeMatchAPI) ListRecentMatches(_ context.Context, _, _ string, count int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if count > len(f.ids) {
		count = len(f.ids)
	}
	return f.ids[:count], nil
}

func (f *fakeMatchAPI) FetchMatchDetail(_ context.Context, _, matchID string) (*api.Match, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	if err := f.detailErr[matchID]; err != nil {
		return nil, err
	}
	return f.matches[matchID], nil
}

func (f *fakeMatchAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls
}

func (f *fakeMatchAPI) resetCalls() {
	f.mu.Lock()
	f.detailCalls = 0
	f.mu.Unlock()
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled :memory: connection per conn would mean one DB per conn.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db, zerolog.Nop()))
	return db
}

type ingestFixture struct {
	svc         *IngestService
	fake        *fakeMatchAPI
	accountRepo *repository.AccountRepository
	matchRepo   *repository.MatchRepository
	summaryRepo *repository.SummaryRepository
}

func newIngestFixture(t *testing.T, fake *fakeMatchAPI) *ingestFixture {
	t.Helper()
	db := newTestDB(t)
	logger := zerolog.Nop()
	accountRepo := repository.NewAccountRepository(db, logger)
	matchRepo := repository.NewMatchRepository(db, logger)
	summaryRepo := repository.NewSummaryRepository(db, logger)

	require.NoError(t, accountRepo.Upsert(context.Background(), &domain.Account{
		UserID:   1,
		Puuid:    testPuuid,
		GameName: "Tester",
		TagLine:  "NA1",
		Region:   "na",
	}))

	return &ingestFixture{
		svc:         NewIngestService(fake, accountRepo, matchRepo, summaryRepo, logger),
		fake:        fake,
		accountRepo: accountRepo,
		matchRepo:   matchRepo,
		summaryRepo: summaryRepo,
	}
}

func detailMatch(matchID string, queueID int, p api.Participant) *api.Match {
	p.Puuid = testPuuid
	return &api.Match{
		Metadata: api.MatchMetadata{MatchID: matchID},
		Info: api.MatchInfo{
			QueueID:      queueID,
			GameCreation: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC).UnixMilli(),
			GameDuration: 1500,
			Participants: []api.Participant{p},
		},
	}
}

func threeModeFake() *fakeMatchAPI {
	return &fakeMatchAPI{
		ids: []string{"NA_1", "NA_2", "NA_3"},
		matches: map[string]*api.Match{
			"NA_1": detailMatch("NA_1", 420, api.Participant{ChampionName: "Ashe", Kills: 4, Deaths: 2, Assists: 6}),
			"NA_2": detailMatch("NA_2", 450, api.Participant{ChampionName: "Lux", Kills: 8, Deaths: 4, Assists: 10}),
			"NA_3": detailMatch("NA_3", 900, api.Participant{ChampionName: "Ashe", Kills: 12, Deaths: 6, Assists: 2}),
		},
	}
}

func TestRunClassifiesAndPersists(t *testing.T) {
	fx := newIngestFixture(t, threeModeFake())
	ctx := context.Background()

	res, err := fx.svc.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 0, res.FromCache)
	assert.Equal(t, 3, res.FromAPI)
	assert.Equal(t, 1, res.Counts[string(modes.CategorySR5v5)])
	assert.Equal(t, 1, res.Counts[string(modes.CategoryARAM)])
	assert.Equal(t, 1, res.Counts[string(modes.CategoryFunModes)])
	assert.Equal(t, 33.33, res.Percent[string(modes.CategorySR5v5)])
	assert.Equal(t, 33.33, res.Percent[string(modes.CategoryARAM)])
	assert.Equal(t, 33.33, res.Percent[string(modes.CategoryFunModes)])
	assert.Equal(t, 0.0, res.Percent[string(modes.CategoryBotGames)])

	cat, err := fx.summaryRepo.GetCategory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 33.33, cat.SR5v5Pct)
	assert.Equal(t, 33.33, cat.ARAMPct)
	assert.Equal(t, 3, cat.TotalMatches)

	det, err := fx.summaryRepo.GetDetailed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, det.MatchesAnalyzed)
	assert.Equal(t, 24, det.TotalKills)
	assert.Equal(t, 8.0, det.AvgKills)
	assert.Equal(t, 3.5, det.AvgKDA) // (24+18)/12
	require.Equal(t, domain.FrequencyList{
		{Name: "Ashe", Count: 2},
		{Name: "Lux", Count: 1},
	}, det.Champions)

	n, err := fx.matchRepo.CountForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunIsIdempotentAndServesRepeatFromCache(t *testing.T) {
	fx := newIngestFixture(t, threeModeFake())
	ctx := context.Background()

	first, err := fx.svc.Run(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, first.FromAPI)

	fx.fake.resetCalls()
	second, err := fx.svc.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, fx.fake.calls(), "cached window must not hit the provider")
	assert.Equal(t, 3, second.FromCache)
	assert.Equal(t, 0, second.FromAPI)
	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, first.Percent, second.Percent)

	n, err := fx.matchRepo.CountForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "re-runs must not duplicate match rows")

	det, err := fx.summaryRepo.GetDetailed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, det.MatchesAnalyzed)
	assert.Equal(t, 3.5, det.AvgKDA)
}

func TestRunFetchesOnlyUncachedMatches(t *testing.T) {
	fake := threeModeFake()
	fx := newIngestFixture(t, fake)
	ctx := context.Background()

	// Pre-seed one match as already ingested, payload included.
	seeded := fake.matches["NA_1"]
	_, err := fx.matchRepo.InsertIgnore(ctx, &domain.MatchRecord{
		UserID:   1,
		MatchID:  "NA_1",
		QueueID:  420,
		GameMode: "Ranked Solo/Duo",
		Category: string(modes.CategorySR5v5),
		GameDate: time.UnixMilli(seeded.Info.GameCreation),
	})
	require.NoError(t, err)
	raw, err := json.Marshal(seeded)
	require.NoError(t, err)
	require.NoError(t, fx.matchRepo.SavePayload(ctx, "NA_1", raw))

	res, err := fx.svc.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.calls(), "only the two unseen matches should be fetched")
	assert.Equal(t, 1, res.FromCache)
	assert.Equal(t, 2, res.FromAPI)
	assert.Equal(t, 3, res.Processed)
}

func TestRunAbortsWithoutCredential(t *testing.T) {
	fake := threeModeFake()
	fake.detailErr = map[string]error{
		"NA_1": api.ErrNoCredential,
		"NA_2": api.ErrNoCredential,
		"NA_3": api.ErrNoCredential,
	}
	fx := newIngestFixture(t, fake)

	_, err := fx.svc.Run(context.Background(), 1)
	require.ErrorIs(t, err, api.ErrNoCredential)

	_, err = fx.summaryRepo.GetCategory(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotAnalyzed)
}

func TestRunSkipsMatchesThatFailUpstream(t *testing.T) {
	fake := threeModeFake()
	fake.detailErr = map[string]error{
		"NA_2": &api.UpstreamError{Status: 404, Body: "match not found"},
	}
	fx := newIngestFixture(t, fake)
	ctx := context.Background()

	res, err := fx.svc.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 50.0, res.Percent[string(modes.CategorySR5v5)])
	assert.Equal(t, 50.0, res.Percent[string(modes.CategoryFunModes)])
	assert.Equal(t, 0.0, res.Percent[string(modes.CategoryARAM)])

	det, err := fx.summaryRepo.GetDetailed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, det.MatchesAnalyzed)
}

func TestRunFailsWhenAccountMissing(t *testing.T) {
	fx := newIngestFixture(t, threeModeFake())

	_, err := fx.svc.Run(context.Background(), 42)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}
