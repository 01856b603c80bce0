package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// VlrBaseURL is the site root, exported so callers can resolve the
	// relative profile links the search markup carries.
	VlrBaseURL = "https://www.vlr.gg"

	vlrSearchURL = VlrBaseURL + "/search/"

	vlrAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	vlrAcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
)

// VlrClient fetches vlr.gg pages. The site serves HTML, not JSON, so the
// client hands raw pages to the caller for parsing.
type VlrClient struct {
	client *fasthttp.Client
}

func NewVlrClient() *VlrClient {
	return &VlrClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// SearchPage fetches the player search results page for a nickname query.
func (c *VlrClient) SearchPage(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "players")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(vlrSearchURL + "?" + params.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", vlrAccept)
	req.Header.Set("accept-language", vlrAcceptLanguage)
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
		return nil, fmt.Errorf("vlr error: %d", resp.StatusCode())
	}

	// the response buffer is pooled, the caller gets its own copy
	return append([]byte(nil), resp.Body()...), nil
}
