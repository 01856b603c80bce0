package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	opggLoLMatchesURL      = "https://esports.op.gg/matches/graphql/__query__ListPagedAllMatches"
	opggValorantMatchesURL = "https://esports.op.gg/valorant/graphql/__query__GetMatchesBySeries"
)

// listPagedAllMatchesQuery is sent verbatim; the upstream routes on the
// operation name embedded in the URL.
const listPagedAllMatchesQuery = `fragment CoreTeam on Team {
  id
  name
  acronym
  imageUrl
  nationality
  imageUrlDarkMode
  imageUrlLightMode
  __typename
}

fragment CoreMatchCompact on Match {
  id
  tournamentId
  name
  scheduledAt
  beginAt
  matchType
  homeTeamId
  homeTeam {
    ...CoreTeam
    __typename
  }
  homeScore
  awayTeamId
  awayTeam {
    ...CoreTeam
    __typename
  }
  awayScore
  winnerTeam {
    ...CoreTeam
    __typename
  }
  status
  draw
  forfeit
  matchVersion
  __typename
}

fragment CoreTournament on Tournament {
  id
  name
  beginAt
  endAt
  __typename
}

query ListPagedAllMatches($status: String, $leagueId: ID, $teamId: ID, $page: Int, $year: Int, $month: Int, $limit: Int, $utcOffset: Int) {
  pagedAllMatches(
    status: $status
    leagueId: $leagueId
    teamId: $teamId
    page: $page
    year: $year
    month: $month
    limit: $limit
    utcOffset: $utcOffset
  ) {
    ...CoreMatchCompact
    tournament {
      ...CoreTournament
      serie {
        league {
          shortName
          region
          __typename
        }
        year
        season
        __typename
      }
      __typename
    }
    __typename
  }
}`

const matchesBySeriesQuery = `fragment CoreTeam on Team { id name acronym imageUrl nationality __typename }
fragment CoreValorantMatchCompact on Match {
  id tournamentId name scheduledAt beginAt matchType
  homeTeamId homeTeam { ...CoreTeam __typename } homeScore
  awayTeamId awayTeam { ...CoreTeam __typename } awayScore
  winnerTeam { ...CoreTeam __typename }
  status draw forfeit matchVersion __typename
}
query GetMatchesBySeries($serieIds: [ID]!, $from: Date, $to: Date, $teamId: ID) {
  matchesBySeries(serieIds: $serieIds, from: $from, to: $to, teamId: $teamId) {
    ...CoreValorantMatchCompact serieId __typename
  }
}`

// OpggClient talks to the OP.GG esports GraphQL endpoints for both games.
type OpggClient struct {
	client *fasthttp.Client
}

func NewOpggClient() *OpggClient {
	return &OpggClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// ListPagedAllMatches fetches the LoL schedule for one league and month.
// utcOffset shifts the provider's date grouping, in minutes.
func (c *OpggClient) ListPagedAllMatches(ctx context.Context, leagueID string, year, month, utcOffset int) (map[string]any, error) {
	payload := map[string]any{
		"operationName": "ListPagedAllMatches",
		"variables": map[string]any{
			"leagueId":  leagueID,
			"year":      year,
			"month":     month,
			"teamId":    nil,
			"utcOffset": utcOffset,
			"page":      0,
		},
		"query": listPagedAllMatchesQuery,
	}
	return c.postGraphQL(ctx, opggLoLMatchesURL, "https://esports.op.gg/schedules/lpl", payload)
}

// MatchesBySeries fetches Valorant matches for a set of series between two
// dates (YYYY-MM-DD).
func (c *OpggClient) MatchesBySeries(ctx context.Context, serieIDs []string, from, to string) (map[string]any, error) {
	payload := map[string]any{
		"operationName": "GetMatchesBySeries",
		"variables": map[string]any{
			"serieIds": serieIDs,
			"from":     from,
			"to":       to,
		},
		"query": matchesBySeriesQuery,
	}
	return c.postGraphQL(ctx, opggValorantMatchesURL, "https://esports.op.gg/valorant", payload)
}

func (c *OpggClient) postGraphQL(ctx context.Context, url, referer string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("accept", "*/*")
	req.Header.SetContentType("application/json")
	req.Header.Set("origin", "https://esports.op.gg")
	req.Header.Set("referer", referer)
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("op.gg API error: %d", resp.StatusCode())
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return result, nil
}
