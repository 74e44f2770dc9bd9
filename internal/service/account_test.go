package service

import (
	"context"
	"testing"

	"league-tracker/internal/api"
	"league-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountAPI struct {
	resolved    *api.AccountResponse
	err         error
	lastCluster string
}

func (f *fakeAccountAPI) ResolveAccount(_ context.Context, cluster, _, _ string) (*api.AccountResponse, error) {
	f.lastCluster = cluster
	if f.err != nil {
		return nil, f.err
	}
	return f.resolved, nil
}

func TestBindResolvesAndStoresAccount(t *testing.T) {
	db := newTestDB(t)
	accountRepo := repository.NewAccountRepository(db, zerolog.Nop())
	fake := &fakeAccountAPI{resolved: &api.AccountResponse{
		Puuid:    "puuid-x",
		GameName: "Hide on bush",
		TagLine:  "KR1",
	}}
	svc := NewAccountService(fake, accountRepo, zerolog.Nop())
	ctx := context.Background()

	account, err := svc.Bind(ctx, 7, "Hide on bush", "KR1", "kr")
	require.NoError(t, err)
	assert.Equal(t, "asia", fake.lastCluster, "resolution must use the routed cluster")
	assert.Equal(t, "puuid-x", account.Puuid)
	assert.Equal(t, "kr", account.Region)

	stored, err := svc.AccountFor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "puuid-x", stored.Puuid)
	assert.Equal(t, "Hide on bush", stored.GameName)
}

func TestBindSurfacesResolutionFailure(t *testing.T) {
	db := newTestDB(t)
	accountRepo := repository.NewAccountRepository(db, zerolog.Nop())
	fake := &fakeAccountAPI{err: &api.UpstreamError{Status: 404, Body: "account not found"}}
	svc := NewAccountService(fake, accountRepo, zerolog.Nop())

	_, err := svc.Bind(context.Background(), 7, "Nobody", "XX", "na")
	require.Error(t, err)
	upstream, ok := api.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, 404, upstream.Status)

	_, err = svc.AccountFor(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
