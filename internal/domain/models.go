package domain

import (
	"time"
)

// MatchStatus is the canonical lifecycle state of a match. Upstream
// vocabularies are mapped onto these three values; an upstream status we
// don't recognize is carried through verbatim so new provider states never
// break callers.
type MatchStatus string

const (
	StatusBefore  MatchStatus = "BEFORE"
	StatusStarted MatchStatus = "STARTED"
	StatusEnd     MatchStatus = "END"
)

// Match is the provider-independent representation of one scheduled game.
//
// Sentinels: team names and logo URLs are "" when the upstream payload had
// no usable value (downstream formatting relies on the empty string, not on
// field absence). Scores are nil when the match has no score yet, which is
// distinct from a played 0.
type Match struct {
	MatchID    string
	StartTime  time.Time // always zone-aware, never naive
	Status     MatchStatus
	HomeTeam   string
	AwayTeam   string
	HomeLogo   string
	AwayLogo   string
	HomeScore  *int
	AwayScore  *int
	LeagueName string
	StageName  string
}

// NewsArticle is one upstream news item, used by the notification flow.
type NewsArticle struct {
	Title     string
	LinkURL   string
	ThumbURL  string
	CreatedAt int64 // epoch millis as the upstream reports it
}

// Subscription records a chat channel that wants news delivered for a game.
type Subscription struct {
	ID        string // nanoid
	ChatID    int64
	Game      string // "lol", "valorant", "overwatch"
	CreatedAt time.Time
}

// Player is one hit of a pro-player nickname search. RealName is whatever
// descriptive text the site attaches to the hit ("" when absent), often a
// romanized name with a Korean name in parentheses.
type Player struct {
	Nickname   string
	RealName   string
	ProfileURL string
}

// NewsState is the per-game watermark of the newest article already
// delivered, so restarts don't re-announce old news.
type NewsState struct {
	Game            string
	LastProcessedAt int64
	UpdatedAt       time.Time
}
