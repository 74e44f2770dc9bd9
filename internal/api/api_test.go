package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUpstreamError(t *testing.T) {
	t.Parallel()

	base := &UpstreamError{Status: 429, Body: "rate limit exceeded"}
	wrapped := fmt.Errorf("fetching match: %w", base)

	ue, ok := IsUpstreamError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 429, ue.Status)
	assert.Contains(t, ue.Error(), "status 429")

	_, ok = IsUpstreamError(ErrNoCredential)
	assert.False(t, ok)
	_, ok = IsUpstreamError(nil)
	assert.False(t, ok)
}

func TestFindParticipant(t *testing.T) {
	t.Parallel()

	m := &Match{Info: MatchInfo{Participants: []Participant{
		{Puuid: "a", ChampionName: "Ashe"},
		{Puuid: "b", ChampionName: "Lux"},
	}}}

	p := m.FindParticipant("b")
	require.NotNil(t, p)
	assert.Equal(t, "Lux", p.ChampionName)

	assert.Nil(t, m.FindParticipant("missing"))
	assert.Nil(t, (&Match{}).FindParticipant("a"))
}
