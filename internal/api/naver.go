package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	naverScheduleMonthsURL = "https://esports-api.game.naver.com/service/v1/schedule/year/months"
	naverMonthScheduleURL  = "https://esports-api.game.naver.com/service/v2/schedule/month"
	naverNewsListURL       = "https://esports-api.game.naver.com/service/v1/news/list"

	// The upstream rejects requests without a browser-looking user agent.
	naverOrigin    = "https://game.naver.com"
	naverUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"
)

// NaverClient talks to the Naver e-sports REST API: schedules and news.
type NaverClient struct {
	client *fasthttp.Client
}

func NewNaverClient() *NaverClient {
	return &NaverClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// ScheduleMonths lists the months of a year that have scheduled matches for
// a league.
func (c *NaverClient) ScheduleMonths(ctx context.Context, year, topLeagueID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("year", year)
	params.Set("topLeagueId", topLeagueID)
	params.Set("relay", "false")
	return c.getJSON(ctx, naverScheduleMonthsURL, params)
}

// MonthlySchedule fetches all matches of one month (YYYYMM) for a league.
func (c *NaverClient) MonthlySchedule(ctx context.Context, yearMonth, topLeagueID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("month", yearMonth)
	params.Set("topLeagueId", topLeagueID)
	params.Set("relay", "false")
	return c.getJSON(ctx, naverMonthScheduleURL, params)
}

// NewsList fetches the latest articles for one game type on a given day
// (YYYY-MM-DD).
func (c *NaverClient) NewsList(ctx context.Context, newsType, day string, pageSize int) (map[string]any, error) {
	params := url.Values{}
	params.Set("sort", "latest")
	params.Set("newsType", newsType)
	params.Set("day", day)
	params.Set("page", "1")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	return c.getJSON(ctx, naverNewsListURL, params)
}

func (c *NaverClient) getJSON(ctx context.Context, base string, params url.Values) (map[string]any, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(base + "?" + params.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("origin", naverOrigin)
	req.Header.Set("user-agent", naverUserAgent)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("naver API error: %d", resp.StatusCode())
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return result, nil
}
