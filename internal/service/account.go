package service

import (
	"context"
	"fmt"

	"league-tracker/internal/constants"
	"league-tracker/internal/domain"
	"league-tracker/internal/region"
	"league-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// AccountService binds a user to a Riot identity. This is the writer behind
// the narrow account boundary the ingestion pipeline consumes.
type AccountService struct {
	resolver    AccountAPI
	accountRepo *repository.AccountRepository
	logger      zerolog.Logger
}

func NewAccountService(resolver AccountAPI, accountRepo *repository.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{resolver: resolver, accountRepo: accountRepo, logger: logger}
}

// Bind resolves gameName#tagLine to a PUUID on the user's routing cluster
// and stores the account. Re-binding overwrites the previous identity.
func (s *AccountService) Bind(ctx context.Context, userID int64, gameName, tagLine, regionCode string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	cluster := region.Route(regionCode)

	resolved, err := s.resolver.ResolveAccount(ctx, cluster, gameName, tagLine)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("game_name", gameName).
			Str("tag_line", tagLine).
			Msg("failed to resolve riot account")
		return nil, fmt.Errorf("failed to resolve riot account %s#%s: %w", gameName, tagLine, err)
	}

	account := &domain.Account{
		UserID:   userID,
		Puuid:    resolved.Puuid,
		GameName: resolved.GameName,
		TagLine:  resolved.TagLine,
		Region:   regionCode,
	}
	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("puuid", account.Puuid).
		Str("region", regionCode).
		Msg("riot account bound")
	return account, nil
}

// AccountFor returns the bound identity for a user.
func (s *AccountService) AccountFor(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.accountRepo.GetByUserID(ctx, userID)
}
