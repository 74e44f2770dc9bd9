package constants

import "time"

const (
	// Riot allows ~100 calls/minute; detail fetches are paced well under that.
	DetailFetchInterval = 1200 * time.Millisecond
	MatchWindowSize     = 30
	FetchWorkers        = 4
)

const (
	SummaryStaleAfter = 24 * time.Hour
	RecentMatchLimit  = 30
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	IngestionTimeout   = 2 * time.Minute
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
