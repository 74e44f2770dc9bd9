package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// Get returns the cached record for (user, match id), or nil on a miss.
func (r *MatchRepository) Get(ctx context.Context, userID int64, matchID string) (*domain.MatchRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, match_id, queue_id, game_mode, game_category, game_date, created_at
		FROM match_records WHERE user_id = ? AND match_id = ?`, userID, matchID)

	var m domain.MatchRecord
	err := row.Scan(&m.ID, &m.UserID, &m.MatchID, &m.QueueID, &m.GameMode, &m.Category, &m.GameDate, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match record %s for user %d: %w", matchID, userID, err)
	}
	return &m, nil
}

// InsertIgnore writes a new match record, relying on the unique constraint
// on (user_id, match_id) so concurrent writers cannot duplicate a row. Each
// insert commits on its own; a later failure never rolls earlier rows back.
// Returns whether a row was actually written.
func (r *MatchRepository) InsertIgnore(ctx context.Context, rec *domain.MatchRecord) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO match_records
			(user_id, match_id, queue_id, game_mode, game_category, game_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.MatchID, rec.QueueID, rec.GameMode, rec.Category, rec.GameDate, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert match record %s for user %d: %w", rec.MatchID, rec.UserID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result for match %s: %w", rec.MatchID, err)
	}
	return rows > 0, nil
}

// ListRecent returns cached match records for a user, newest first.
func (r *MatchRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, queue_id, game_mode, game_category, game_date, created_at
		FROM match_records
		WHERE user_id = ?
		ORDER BY game_date DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list match records for user %d: %w", userID, err)
	}
	defer rows.Close()

	records := []domain.MatchRecord{}
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(&m.ID, &m.UserID, &m.MatchID, &m.QueueID, &m.GameMode, &m.Category, &m.GameDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match records: %w", err)
	}
	return records, nil
}

// SavePayload caches a raw detail payload. Payloads are immutable and
// shared across users, so duplicates are ignored.
func (r *MatchRepository) SavePayload(ctx context.Context, matchID string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO match_payloads (match_id, payload, created_at)
		VALUES (?, ?, ?)`, matchID, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save payload for match %s: %w", matchID, err)
	}
	return nil
}

// GetPayload returns the cached detail payload for a match, or nil on a miss.
func (r *MatchRepository) GetPayload(ctx context.Context, matchID string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM match_payloads WHERE match_id = ?`, matchID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payload for match %s: %w", matchID, err)
	}
	return []byte(payload), nil
}

// CountForUser returns how many matches are cached for a user.
func (r *MatchRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_records WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count match records for user %d: %w", userID, err)
	}
	return count, nil
}
