package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// ErrNotAnalyzed means no summary exists for the user yet (never ingested).
var ErrNotAnalyzed = errors.New("no analysis data for user")

type SummaryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSummaryRepository(sqlDB *sql.DB, logger zerolog.Logger) *SummaryRepository {
	return &SummaryRepository{db: sqlDB, logger: logger}
}

func (r *SummaryRepository) UpsertCategory(ctx context.Context, s *domain.CategorySummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO category_summaries
			(user_id, sr_5v5_pct, aram_pct, fun_modes_pct, bot_games_pct, custom_pct, unknown_pct, total_matches, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			sr_5v5_pct = excluded.sr_5v5_pct,
			aram_pct = excluded.aram_pct,
			fun_modes_pct = excluded.fun_modes_pct,
			bot_games_pct = excluded.bot_games_pct,
			custom_pct = excluded.custom_pct,
			unknown_pct = excluded.unknown_pct,
			total_matches = excluded.total_matches,
			last_updated = excluded.last_updated`,
		s.UserID, s.SR5v5Pct, s.ARAMPct, s.FunModesPct, s.BotGamesPct, s.CustomPct, s.UnknownPct,
		s.TotalMatches, s.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert category summary for user %d: %w", s.UserID, err)
	}
	return nil
}

func (r *SummaryRepository) GetCategory(ctx context.Context, userID int64) (*domain.CategorySummary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, sr_5v5_pct, aram_pct, fun_modes_pct, bot_games_pct, custom_pct, unknown_pct, total_matches, last_updated
		FROM category_summaries WHERE user_id = ?`, userID)

	var s domain.CategorySummary
	err := row.Scan(&s.UserID, &s.SR5v5Pct, &s.ARAMPct, &s.FunModesPct, &s.BotGamesPct, &s.CustomPct, &s.UnknownPct,
		&s.TotalMatches, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotAnalyzed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category summary for user %d: %w", userID, err)
	}
	return &s, nil
}

func (r *SummaryRepository) UpsertDetailed(ctx context.Context, s *domain.DetailedSummary) error {
	champions, err := marshalFrequencies(s.Champions)
	if err != nil {
		return err
	}
	positions, err := marshalFrequencies(s.Positions)
	if err != nil {
		return err
	}
	allies, err := marshalFrequencies(s.Allies)
	if err != nil {
		return err
	}
	enemies, err := marshalFrequencies(s.Enemies)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO detailed_summaries (
			user_id, champions, positions, allies, enemies,
			double_kills, triple_kills, quadra_kills, penta_kills, total_multikills, avg_multikills,
			total_gold, total_kills, total_deaths, total_assists, total_damage_dealt, total_damage_taken,
			total_vision_score, total_items, total_time_played,
			avg_gold, avg_kills, avg_deaths, avg_assists, avg_damage_dealt, avg_damage_taken,
			avg_vision_score, avg_items, avg_time_played, avg_kda,
			matches_analyzed, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			champions = excluded.champions,
			positions = excluded.positions,
			allies = excluded.allies,
			enemies = excluded.enemies,
			double_kills = excluded.double_kills,
			triple_kills = excluded.triple_kills,
			quadra_kills = excluded.quadra_kills,
			penta_kills = excluded.penta_kills,
			total_multikills = excluded.total_multikills,
			avg_multikills = excluded.avg_multikills,
			total_gold = excluded.total_gold,
			total_kills = excluded.total_kills,
			total_deaths = excluded.total_deaths,
			total_assists = excluded.total_assists,
			total_damage_dealt = excluded.total_damage_dealt,
			total_damage_taken = excluded.total_damage_taken,
			total_vision_score = excluded.total_vision_score,
			total_items = excluded.total_items,
			total_time_played = excluded.total_time_played,
			avg_gold = excluded.avg_gold,
			avg_kills = excluded.avg_kills,
			avg_deaths = excluded.avg_deaths,
			avg_assists = excluded.avg_assists,
			avg_damage_dealt = excluded.avg_damage_dealt,
			avg_damage_taken = excluded.avg_damage_taken,
			avg_vision_score = excluded.avg_vision_score,
			avg_items = excluded.avg_items,
			avg_time_played = excluded.avg_time_played,
			avg_kda = excluded.avg_kda,
			matches_analyzed = excluded.matches_analyzed,
			last_updated = excluded.last_updated`,
		s.UserID, champions, positions, allies, enemies,
		s.DoubleKills, s.TripleKills, s.QuadraKills, s.PentaKills, s.TotalMultikills, s.AvgMultikills,
		s.TotalGold, s.TotalKills, s.TotalDeaths, s.TotalAssists, s.TotalDamageDealt, s.TotalDamageTaken,
		s.TotalVisionScore, s.TotalItems, s.TotalTimePlayed,
		s.AvgGold, s.AvgKills, s.AvgDeaths, s.AvgAssists, s.AvgDamageDealt, s.AvgDamageTaken,
		s.AvgVisionScore, s.AvgItems, s.AvgTimePlayed, s.AvgKDA,
		s.MatchesAnalyzed, s.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert detailed summary for user %d: %w", s.UserID, err)
	}
	return nil
}

func (r *SummaryRepository) GetDetailed(ctx context.Context, userID int64) (*domain.DetailedSummary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, champions, positions, allies, enemies,
			double_kills, triple_kills, quadra_kills, penta_kills, total_multikills, avg_multikills,
			total_gold, total_kills, total_deaths, total_assists, total_damage_dealt, total_damage_taken,
			total_vision_score, total_items, total_time_played,
			avg_gold, avg_kills, avg_deaths, avg_assists, avg_damage_dealt, avg_damage_taken,
			avg_vision_score, avg_items, avg_time_played, avg_kda,
			matches_analyzed, last_updated
		FROM detailed_summaries WHERE user_id = ?`, userID)

	var s domain.DetailedSummary
	var champions, positions, allies, enemies string
	err := row.Scan(&s.UserID, &champions, &positions, &allies, &enemies,
		&s.DoubleKills, &s.TripleKills, &s.QuadraKills, &s.PentaKills, &s.TotalMultikills, &s.AvgMultikills,
		&s.TotalGold, &s.TotalKills, &s.TotalDeaths, &s.TotalAssists, &s.TotalDamageDealt, &s.TotalDamageTaken,
		&s.TotalVisionScore, &s.TotalItems, &s.TotalTimePlayed,
		&s.AvgGold, &s.AvgKills, &s.AvgDeaths, &s.AvgAssists, &s.AvgDamageDealt, &s.AvgDamageTaken,
		&s.AvgVisionScore, &s.AvgItems, &s.AvgTimePlayed, &s.AvgKDA,
		&s.MatchesAnalyzed, &s.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotAnalyzed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detailed summary for user %d: %w", userID, err)
	}

	if s.Champions, err = unmarshalFrequencies(champions); err != nil {
		return nil, err
	}
	if s.Positions, err = unmarshalFrequencies(positions); err != nil {
		return nil, err
	}
	if s.Allies, err = unmarshalFrequencies(allies); err != nil {
		return nil, err
	}
	if s.Enemies, err = unmarshalFrequencies(enemies); err != nil {
		return nil, err
	}
	return &s, nil
}

func marshalFrequencies(list domain.FrequencyList) (string, error) {
	if list == nil {
		list = domain.FrequencyList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frequency list: %w", err)
	}
	return string(data), nil
}

func unmarshalFrequencies(data string) (domain.FrequencyList, error) {
	var list domain.FrequencyList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frequency list: %w", err)
	}
	return list, nil
}
