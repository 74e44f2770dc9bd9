package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"league-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// ErrAccountNotFound means the user has not bound a Riot account yet.
var ErrAccountNotFound = errors.New("account not found")

type AccountRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAccountRepository(sqlDB *sql.DB, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{db: sqlDB, logger: logger}
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, puuid, game_name, tag_line, region, created_at, updated_at
		FROM accounts WHERE user_id = ?`, userID)

	var a domain.Account
	err := row.Scan(&a.UserID, &a.Puuid, &a.GameName, &a.TagLine, &a.Region, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &a, nil
}

func (r *AccountRepository) Upsert(ctx context.Context, account *domain.Account) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, puuid, game_name, tag_line, region, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			puuid = excluded.puuid,
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			region = excluded.region,
			updated_at = excluded.updated_at`,
		account.UserID, account.Puuid, account.GameName, account.TagLine, account.Region, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert account for user %d: %w", account.UserID, err)
	}

	r.logger.Debug().
		Int64("user_id", account.UserID).
		Str("puuid", account.Puuid).
		Str("region", account.Region).
		Msg("account upserted")
	return nil
}
