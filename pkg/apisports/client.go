// Package apisports implements the client for the API-Sports american
// football odds endpoint, served through RapidAPI with header-based
// authentication.
package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
)

const rapidAPIHost = "v1.american-football.api-sports.io"

// nflLeagueID is API-Sports' league id for the NFL.
const nflLeagueID = 1

// Transport matches the proxy fetcher surface; see oddsapi.Transport.
type Transport interface {
	Fetch(ctx context.Context, rawURL string, opts *proxyfetch.Options) (*proxyfetch.Response, error)
}

// Client fetches odds entries from API-Sports. No variant ladder here: the
// endpoint takes a single league/season pair and either has data or not.
type Client struct {
	provider  *models.ProviderConfig
	transport Transport
	logger    *logger.Logger
}

func NewClient(provider *models.ProviderConfig, transport Transport) *Client {
	return &Client{
		provider:  provider,
		transport: transport,
		logger:    logger.New("apisports-client").WithProvider(provider.ID),
	}
}

// FetchOdds returns the raw odds entries for the given season. The upstream
// wraps errors in a 200 envelope, so both the HTTP status and the envelope
// error field are checked.
func (c *Client) FetchOdds(ctx context.Context, season int) ([]models.APISportsOddsEntry, error) {
	if !c.provider.HasCredentials() {
		return nil, &providers.MissingCredentialError{Provider: c.provider.ID}
	}

	params := url.Values{
		"league": {strconv.Itoa(nflLeagueID)},
		"season": {strconv.Itoa(season)},
	}
	target := c.provider.BaseURL + c.provider.Endpoint("odds") + "?" + params.Encode()

	// Header auth cannot survive a public relay, so this client always goes
	// direct; the registry's RequiresProxy flag only matters for browser
	// deployments.
	resp, err := c.transport.Fetch(ctx, target, &proxyfetch.Options{
		Headers: map[string]string{
			"x-rapidapi-key":  c.provider.APIKey,
			"x-rapidapi-host": rapidAPIHost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}
	if err := providers.ClassifyStatus(c.provider.ID, "odds", resp); err != nil {
		return nil, err
	}

	var envelope models.APISportsResponse[models.APISportsOddsEntry]
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}
	if envelope.HasErrors() {
		return nil, fmt.Errorf("API returned errors in response body: %v", envelope.Errors)
	}

	return envelope.Response, nil
}
