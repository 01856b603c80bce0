package schedule

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownLeague means the user input maps to no canonical league key.
	ErrUnknownLeague = errors.New("unknown league")

	// ErrNoSeriesIDs means the canonical key exists but carries no provider
	// series IDs. This is a table-integrity fault, not bad user input, and
	// is logged as such; callers see it the same way as an unknown league.
	ErrNoSeriesIDs = errors.New("no series ids configured for league")
)

//go:embed leagues.yaml
var defaultLeaguesYAML []byte

const (
	GameLoL      = "lol"
	GameValorant = "valorant"

	// GameOverwatch has news but no schedule tables, so it never appears
	// as a Table key.
	GameOverwatch = "overwatch"
)

// Resolution is the outcome of an alias lookup: the canonical league key and
// the provider series IDs configured for it, in priority order.
type Resolution struct {
	Key      string
	SerieIDs []string
}

// GameConfig holds the alias and series tables for one game.
type GameConfig struct {
	Aliases map[string]string   `yaml:"aliases"`
	Series  map[string][]string `yaml:"series"`
}

// Table is the immutable alias configuration for every supported game.
// It is built once at startup and only read afterwards, so concurrent use
// needs no locking.
type Table struct {
	games  map[string]GameConfig
	logger zerolog.Logger
}

// LoadTable reads the league tables from path, or from the embedded default
// when path is empty.
func LoadTable(path string, logger zerolog.Logger) (*Table, error) {
	raw := defaultLeaguesYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read league table: %w", err)
		}
		raw = b
	}

	var games map[string]GameConfig
	if err := yaml.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("failed to parse league table: %w", err)
	}

	for game, gt := range games {
		logger.Info().
			Str("game", game).
			Int("aliases", len(gt.Aliases)).
			Int("leagues", len(gt.Series)).
			Msg("league table loaded")
	}

	return &Table{games: games, logger: logger}, nil
}

// NewTable builds a table from already-parsed game configs. Used by tests to
// substitute alternate league data.
func NewTable(games map[string]GameConfig, logger zerolog.Logger) *Table {
	return &Table{games: games, logger: logger}
}

// CanonicalKey maps user input to the canonical league key for a game.
// ASCII input is lowercased before lookup; localized aliases match verbatim.
func (t *Table) CanonicalKey(game, input string) (string, error) {
	gt, ok := t.games[game]
	if !ok {
		return "", fmt.Errorf("%w: game %q", ErrUnknownLeague, game)
	}
	key, ok := gt.Aliases[strings.ToLower(input)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLeague, input)
	}
	return key, nil
}

// Resolve maps user input to a canonical key plus its provider series IDs.
// A key without configured IDs fails with ErrNoSeriesIDs, logged distinctly
// from an unknown alias since it means the table itself is broken.
func (t *Table) Resolve(game, input string) (Resolution, error) {
	key, err := t.CanonicalKey(game, input)
	if err != nil {
		return Resolution{}, err
	}

	ids := t.games[game].Series[key]
	if len(ids) == 0 {
		t.logger.Error().
			Str("game", game).
			Str("league_key", key).
			Msg("league key has no series ids configured")
		return Resolution{}, fmt.Errorf("%w: %q", ErrNoSeriesIDs, key)
	}

	return Resolution{Key: key, SerieIDs: ids}, nil
}
