package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	// UpcomingMatchLimit caps the matches returned by the upcoming-schedule
	// query (the bot shows the next few games, not a whole split).
	UpcomingMatchLimit = 4

	// ValorantWindowDays is the rolling lookahead for series-based queries.
	ValorantWindowDays = 30

	// KSTOffsetMinutes is passed to the GraphQL provider so grouped results
	// align with Korean local dates.
	KSTOffsetMinutes = 540

	NewsPageSize = 20

	// PlayerResultsPerPage mirrors how many search hits a chat message shows
	// at once before pointing at the full result list.
	PlayerResultsPerPage = 5
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

const (
	BotUpdateTimeoutSeconds = 60
)
