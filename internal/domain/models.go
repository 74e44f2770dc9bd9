package domain

import (
	"time"
)

// Account links an application user to a Riot identity. One per user,
// created when the user binds their Riot ID; required before ingestion.
type Account struct {
	UserID    int64
	Puuid     string
	GameName  string
	TagLine   string
	Region    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchRecord is the durable cache entry for one ingested match. Rows are
// unique per (user, match id) and never mutated after insert.
type MatchRecord struct {
	ID        int64
	UserID    int64
	MatchID   string
	QueueID   int
	GameMode  string
	Category  string
	GameDate  time.Time
	CreatedAt time.Time
}

// CategorySummary holds the game-mode distribution of a user's recent
// matches. Replaced wholesale on each successful ingestion run.
type CategorySummary struct {
	UserID       int64
	SR5v5Pct     float64
	ARAMPct      float64
	FunModesPct  float64
	BotGamesPct  float64
	CustomPct    float64
	UnknownPct   float64
	TotalMatches int
	LastUpdated  time.Time
}

// FrequencyCount is one entry of an ordered frequency list. Frequency data
// is kept as a slice rather than a map so the descending order survives
// JSON serialization.
type FrequencyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type FrequencyList []FrequencyCount

// TopN returns the names of the first n entries. The list is expected to be
// sorted descending by count already.
func (f FrequencyList) TopN(n int) []string {
	if n > len(f) {
		n = len(f)
	}
	names := make([]string, 0, n)
	for _, e := range f[:n] {
		names = append(names, e.Name)
	}
	return names
}

// DetailedSummary is the per-user aggregate over the participant records of
// the matches processed in one run. Averages are over MatchesAnalyzed, not
// the requested window size.
type DetailedSummary struct {
	UserID int64

	Champions FrequencyList
	Positions FrequencyList
	Allies    FrequencyList
	Enemies   FrequencyList

	DoubleKills     int
	TripleKills     int
	QuadraKills     int
	PentaKills      int
	TotalMultikills int
	AvgMultikills   float64

	TotalGold        int
	TotalKills       int
	TotalDeaths      int
	TotalAssists     int
	TotalDamageDealt int
	TotalDamageTaken int
	TotalVisionScore int
	TotalItems       int
	TotalTimePlayed  int

	AvgGold        float64
	AvgKills       float64
	AvgDeaths      float64
	AvgAssists     float64
	AvgDamageDealt float64
	AvgDamageTaken float64
	AvgVisionScore float64
	AvgItems       float64
	AvgTimePlayed  float64
	AvgKDA         float64

	MatchesAnalyzed int
	LastUpdated     time.Time
}
