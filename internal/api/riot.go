package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"league-tracker/internal/config"
	"league-tracker/internal/constants"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// RiotClient performs authenticated calls against the Riot API. Detail
// fetches share one token-bucket limiter, so the pacing holds across a
// worker pool, not per goroutine.
type RiotClient struct {
	apiKey  string
	client  *fasthttp.Client
	limiter *rate.Limiter
}

func NewRiotClient(cfg *config.Config) *RiotClient {
	return &RiotClient{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Every(constants.DetailFetchInterval), 1),
	}
}

// ResolveAccount resolves a Riot ID (name#tag) to its PUUID.
func (c *RiotClient) ResolveAccount(ctx context.Context, cluster, gameName, tagLine string) (*AccountResponse, error) {
	reqURL := fmt.Sprintf("https://%s.api.riotgames.com/riot/account/v1/accounts/by-riot-id/%s/%s",
		cluster, url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountResponse](ctx, c, reqURL)
}

// ListRecentMatches returns the user's most recent match ids, newest first.
func (c *RiotClient) ListRecentMatches(ctx context.Context, cluster, puuid string, count int) ([]string, error) {
	reqURL := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		cluster, puuid, count)
	ids, err := doRequest[[]string](ctx, c, reqURL)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

// FetchMatchDetail fetches one match payload. Calls block on the shared
// limiter before touching the network.
func (c *RiotClient) FetchMatchDetail(ctx context.Context, cluster, matchID string) (*Match, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s", cluster, matchID)
	return doRequest[Match](ctx, c, reqURL)
}

func doRequest[T any](ctx context.Context, client *RiotClient, reqURL string) (*T, error) {
	if client.apiKey == "" {
		return nil, ErrNoCredential
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(reqURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
