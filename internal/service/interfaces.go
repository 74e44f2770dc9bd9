package service

import (
	"context"

	"league-tracker/internal/api"
)

// MatchAPI is the slice of the Riot client the ingestion pipeline needs.
type MatchAPI interface {
	ListRecentMatches(ctx context.Context, cluster, puuid string, count int) ([]string, error)
	FetchMatchDetail(ctx context.Context, cluster, matchID string) (*api.Match, error)
}

// AccountAPI resolves Riot IDs to PUUIDs.
type AccountAPI interface {
	ResolveAccount(ctx context.Context, cluster, gameName, tagLine string) (*api.AccountResponse, error)
}
