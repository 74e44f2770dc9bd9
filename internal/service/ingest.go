package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/modes"
	"league-tracker/internal/region"
	"league-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// RunResult is the structured status of one ingestion+aggregation run.
type RunResult struct {
	Status    string             `json:"status"`
	Message   string             `json:"message"`
	Requested int                `json:"requested"`
	Processed int                `json:"processed"`
	FromCache int                `json:"from_cache"`
	FromAPI   int                `json:"from_api"`
	Counts    map[string]int     `json:"mode_counts"`
	Percent   map[string]float64 `json:"mode_percentages"`
}

// IngestService drives the full pipeline: resolve the account, list the
// recent match window, classify each match (from cache when possible),
// and persist both summary shapes.
type IngestService struct {
	client      MatchAPI
	accountRepo *repository.AccountRepository
	matchRepo   *repository.MatchRepository
	summaryRepo *repository.SummaryRepository
	logger      zerolog.Logger
	inflight    singleflight.Group
}

func NewIngestService(
	client MatchAPI,
	accountRepo *repository.AccountRepository,
	matchRepo *repository.MatchRepository,
	summaryRepo *repository.SummaryRepository,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		client:      client,
		accountRepo: accountRepo,
		matchRepo:   matchRepo,
		summaryRepo: summaryRepo,
		logger:      logger,
	}
}

// Run executes one ingestion+aggregation run for a user. Concurrent calls
// for the same user join the in-flight run instead of racing it.
func (s *IngestService) Run(ctx context.Context, userID int64) (*RunResult, error) {
	v, err, shared := s.inflight.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		return s.run(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug().Int64("user_id", userID).Msg("joined in-flight ingestion run")
	}
	return v.(*RunResult), nil
}

// matchOutcome is the per-id result of the fetch phase. Exactly one of
// skipped or record is meaningful; payload is set only for fresh fetches.
type matchOutcome struct {
	record    *domain.MatchRecord
	payload   *api.Match
	fromCache bool
	skipped   bool
}

func (s *IngestService) run(ctx context.Context, userID int64) (*RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.IngestionTimeout)
	defer cancel()

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	logger := s.logger.With().Str("run_id", runID).Int64("user_id", userID).Logger()

	account, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("account lookup failed")
		return nil, err
	}
	if account.Puuid == "" {
		return nil, fmt.Errorf("user %d has no PUUID bound", userID)
	}

	cluster := region.Route(account.Region)
	logger.Info().
		Str("puuid", account.Puuid).
		Str("region", account.Region).
		Str("cluster", cluster).
		Msg("starting ingestion run")

	ids, err := s.client.ListRecentMatches(ctx, cluster, account.Puuid, constants.MatchWindowSize)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list recent matches")
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}
	logger.Debug().Int("match_count", len(ids)).Msg("match id list fetched")

	outcomes := make([]matchOutcome, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.FetchWorkers)

	for i, id := range ids {
		g.Go(func() error {
			outcome, err := s.resolveMatch(gCtx, logger, userID, cluster, id)
			if err != nil {
				return err
			}
			outcomes[i] = *outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("ingestion run aborted")
		return nil, err
	}

	// Tallies run sequentially over the indexed outcomes so the result is
	// identical regardless of fetch completion order.
	counts := make(map[string]int, len(modes.Categories))
	for _, c := range modes.Categories {
		counts[string(c)] = 0
	}

	fromCache, fromAPI := 0, 0
	for _, o := range outcomes {
		if o.skipped {
			continue
		}
		counts[o.record.Category]++
		if o.fromCache {
			fromCache++
		} else {
			fromAPI++
		}
	}

	total := fromCache + fromAPI
	now := time.Now()

	catSummary := buildCategorySummary(userID, counts, total, now)
	if err := s.summaryRepo.UpsertCategory(ctx, catSummary); err != nil {
		logger.Error().Err(err).Msg("failed to persist category summary")
		return nil, err
	}

	detailed, err := s.aggregateDetails(ctx, logger, account.Puuid, cluster, userID, outcomes, now)
	if err != nil {
		return nil, err
	}
	if err := s.summaryRepo.UpsertDetailed(ctx, detailed); err != nil {
		logger.Error().Err(err).Msg("failed to persist detailed summary")
		return nil, err
	}

	logger.Info().
		Int("requested", len(ids)).
		Int("processed", total).
		Int("from_cache", fromCache).
		Int("from_api", fromAPI).
		Int("detail_matches", detailed.MatchesAnalyzed).
		Msg("ingestion run completed")

	return &RunResult{
		Status: "success",
		Message: fmt.Sprintf("processed %d/%d matches (%d cached, %d fetched)",
			total, len(ids), fromCache, fromAPI),
		Requested: len(ids),
		Processed: total,
		FromCache: fromCache,
		FromAPI:   fromAPI,
		Counts:    counts,
		Percent:   percentages(counts, total),
	}, nil
}

// resolveMatch turns one match id into an outcome: cache hit, fresh fetch,
// or skip. Upstream failures on a single match are not fatal; persistence
// failures and missing credentials are.
func (s *IngestService) resolveMatch(ctx context.Context, logger zerolog.Logger, userID int64, cluster, matchID string) (*matchOutcome, error) {
	cached, err := s.matchRepo.Get(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		logger.Debug().Str("match_id", matchID).Msg("match served from cache")
		return &matchOutcome{record: cached, fromCache: true}, nil
	}

	match, err := s.client.FetchMatchDetail(ctx, cluster, matchID)
	if err != nil {
		if errors.Is(err, api.ErrNoCredential) || ctx.Err() != nil {
			return nil, err
		}
		logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch match detail, skipping")
		return &matchOutcome{skipped: true}, nil
	}

	cls := modes.Classify(match.Info.QueueID)
	rec := &domain.MatchRecord{
		UserID:   userID,
		MatchID:  matchID,
		QueueID:  match.Info.QueueID,
		GameMode: cls.Label,
		Category: string(cls.Category),
		GameDate: time.UnixMilli(match.Info.GameCreation),
	}
	if _, err := s.matchRepo.InsertIgnore(ctx, rec); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for match %s: %w", matchID, err)
	}
	if err := s.matchRepo.SavePayload(ctx, matchID, raw); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("match_id", matchID).
		Int("queue_id", rec.QueueID).
		Str("category", rec.Category).
		Msg("match fetched and cached")
	return &matchOutcome{record: rec, payload: match}, nil
}

// aggregateDetails is the second pass over the run's match set. Payloads
// fetched during ingestion are reused; cache hits read the durable payload
// cache, falling back to a paced re-fetch only when no copy is held.
func (s *IngestService) aggregateDetails(ctx context.Context, logger zerolog.Logger, puuid, cluster string, userID int64, outcomes []matchOutcome, now time.Time) (*domain.DetailedSummary, error) {
	acc := newDetailAccumulator()

	for _, o := range outcomes {
		if o.skipped {
			continue
		}

		payload := o.payload
		if payload == nil {
			var err error
			payload, err = s.loadOrRefetch(ctx, logger, cluster, o.record.MatchID)
			if err != nil {
				return nil, err
			}
			if payload == nil {
				continue
			}
		}

		if !acc.add(payload, puuid, modes.Category(o.record.Category)) {
			logger.Warn().Str("match_id", o.record.MatchID).Msg("participant not found in match payload, skipping")
		}
	}

	return acc.summary(userID, now), nil
}

// loadOrRefetch resolves a detail payload for a cached match. A nil, nil
// return means the match should be skipped.
func (s *IngestService) loadOrRefetch(ctx context.Context, logger zerolog.Logger, cluster, matchID string) (*api.Match, error) {
	raw, err := s.matchRepo.GetPayload(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		var match api.Match
		if err := json.Unmarshal(raw, &match); err != nil {
			logger.Warn().Err(err).Str("match_id", matchID).Msg("corrupt cached payload, refetching")
		} else {
			return &match, nil
		}
	}

	match, err := s.client.FetchMatchDetail(ctx, cluster, matchID)
	if err != nil {
		if errors.Is(err, api.ErrNoCredential) || ctx.Err() != nil {
			return nil, err
		}
		logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch detail for aggregation, skipping")
		return nil, nil
	}
	if raw, err := json.Marshal(match); err == nil {
		if err := s.matchRepo.SavePayload(ctx, matchID, raw); err != nil {
			return nil, err
		}
	}
	return match, nil
}

func buildCategorySummary(userID int64, counts map[string]int, total int, now time.Time) *domain.CategorySummary {
	pct := percentages(counts, total)
	return &domain.CategorySummary{
		UserID:       userID,
		SR5v5Pct:     pct[string(modes.CategorySR5v5)],
		ARAMPct:      pct[string(modes.CategoryARAM)],
		FunModesPct:  pct[string(modes.CategoryFunModes)],
		BotGamesPct:  pct[string(modes.CategoryBotGames)],
		CustomPct:    pct[string(modes.CategoryCustom)],
		UnknownPct:   pct[string(modes.CategoryUnknown)],
		TotalMatches: total,
		LastUpdated:  now,
	}
}

func percentages(counts map[string]int, total int) map[string]float64 {
	pct := make(map[string]float64, len(counts))
	for category, count := range counts {
		if total > 0 {
			pct[category] = round2(float64(count) / float64(total) * 100)
		} else {
			pct[category] = 0
		}
	}
	return pct
}
