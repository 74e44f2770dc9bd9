package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownQueues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		queueID  int
		category Category
		label    string
	}{
		{400, CategorySR5v5, "Normal Draft"},
		{420, CategorySR5v5, "Ranked Solo/Duo"},
		{430, CategorySR5v5, "Normal Blind"},
		{440, CategorySR5v5, "Ranked Flex"},
		{450, CategoryARAM, "ARAM"},
		{720, CategoryARAM, "ARAM Clash"},
		{700, CategoryFunModes, "Clash"},
		{900, CategoryFunModes, "URF"},
		{1020, CategoryFunModes, "One for All"},
		{1300, CategoryFunModes, "Nexus Blitz"},
		{1400, CategoryFunModes, "Ultimate Spellbook"},
		{1700, CategoryFunModes, "Arena"},
		{1900, CategoryFunModes, "URF"},
		{830, CategoryBotGames, "Co-op vs AI"},
		{840, CategoryBotGames, "Co-op vs AI"},
		{850, CategoryBotGames, "Co-op vs AI"},
		{0, CategoryCustom, "Custom Game"},
	}
	for _, tc := range cases {
		got := Classify(tc.queueID)
		assert.Equal(t, tc.category, got.Category, "queue %d", tc.queueID)
		assert.Equal(t, tc.label, got.Label, "queue %d", tc.queueID)
	}
}

func TestClassifyUnknownQueue(t *testing.T) {
	t.Parallel()

	got := Classify(9999)
	assert.Equal(t, CategoryUnknown, got.Category)
	assert.Empty(t, got.Label)

	// Negative ids are impossible upstream but must not panic or misfile.
	assert.Equal(t, CategoryUnknown, Classify(-1).Category)
}

func TestCategoriesCoverEveryClassification(t *testing.T) {
	t.Parallel()

	seen := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		seen[c] = true
	}
	for queueID, category := range queueCategories {
		assert.True(t, seen[category], "queue %d maps to unlisted category %s", queueID, category)
	}
	assert.Equal(t, CategoryUnknown, Categories[len(Categories)-1])
}

func TestTeamBased(t *testing.T) {
	t.Parallel()

	assert.True(t, TeamBased(CategorySR5v5))
	assert.True(t, TeamBased(CategoryARAM))
	assert.False(t, TeamBased(CategoryFunModes))
	assert.False(t, TeamBased(CategoryBotGames))
	assert.False(t, TeamBased(CategoryCustom))
	assert.False(t, TeamBased(CategoryUnknown))
}
