// Package oddsapi implements the client for The Odds API v4, including the
// descending request-variant ladder used for bulk odds fetches and the
// per-event endpoint used for player props.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
)

// PropMarkets are the player-prop market keys requested on the per-event
// endpoint.
var PropMarkets = []string{
	"player_pass_yds",
	"player_rush_yds",
	"player_receptions",
	"player_reception_yds",
	"player_anytime_td",
}

// Transport abstracts the proxy fetcher so the ladder can be exercised with
// a mocked HTTP layer in tests.
type Transport interface {
	Fetch(ctx context.Context, rawURL string, opts *proxyfetch.Options) (*proxyfetch.Response, error)
}

// Client fetches raw game and event payloads from The Odds API. It holds a
// reference to the registry descriptor, so the API key applied at startup is
// visible here without any global state.
type Client struct {
	provider  *models.ProviderConfig
	transport Transport
	ladder    []QuerySpec
	logger    *logger.Logger
}

// NewClient creates a client bound to the given provider descriptor.
func NewClient(provider *models.ProviderConfig, transport Transport) *Client {
	return &Client{
		provider:  provider,
		transport: transport,
		ladder:    DefaultLadder(),
		logger:    logger.New("oddsapi-client").WithProvider(provider.ID),
	}
}

// FetchGames walks the variant ladder until one request returns usable data.
// Fatal classifications (401, 429, 5xx) short-circuit the ladder; 422 and
// other 4xx move to the next, narrower variant. A 200 with an empty array is
// a valid off-season result, not an error.
func (c *Client) FetchGames(ctx context.Context, sport string) ([]models.OddsAPIGame, error) {
	if !c.provider.HasCredentials() {
		return nil, &providers.MissingCredentialError{Provider: c.provider.ID}
	}

	ladder := newVariantLadder(c.ladder)
	for {
		variant, ok := ladder.next()
		if !ok {
			break
		}

		games, err := c.fetchVariant(ctx, sport, variant)
		if err != nil {
			if providers.IsFatal(err) {
				return nil, err
			}
			c.logger.Warn().
				Err(err).
				Str("action", "variant_failed").
				Str("variant", variant.Description).
				Msg("Request variant failed, trying narrower request")
			continue
		}

		ladder.succeed()
		c.logger.Info().
			Str("action", "variant_succeeded").
			Str("variant", variant.Description).
			Int("games", len(games)).
			Msg("Odds fetch succeeded")
		return games, nil
	}

	return nil, &providers.AllVariantsExhaustedError{
		Provider: c.provider.ID,
		Attempts: ladder.attempts(),
	}
}

func (c *Client) fetchVariant(ctx context.Context, sport string, variant QuerySpec) ([]models.OddsAPIGame, error) {
	target := c.oddsURL(sport, variant)

	resp, err := c.transport.Fetch(ctx, target, &proxyfetch.Options{AllRelays: c.provider.RequiresProxy})
	if err != nil {
		return nil, fmt.Errorf("transport exhausted for variant %q: %w", variant.Description, err)
	}
	if err := providers.ClassifyStatus(c.provider.ID, variant.Description, resp); err != nil {
		return nil, err
	}

	var games []models.OddsAPIGame
	if err := json.Unmarshal(resp.Body, &games); err != nil {
		// Relays occasionally hand back HTML error pages with a 200.
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}
	return games, nil
}

// FetchEvents lists upcoming events; used to discover event ids for the
// per-event props endpoint. Events are free on the upstream quota.
func (c *Client) FetchEvents(ctx context.Context, sport string) ([]models.OddsAPIEvent, error) {
	if !c.provider.HasCredentials() {
		return nil, &providers.MissingCredentialError{Provider: c.provider.ID}
	}

	target := c.buildURL(fmt.Sprintf(c.provider.Endpoint("events"), sport), url.Values{
		"apiKey":     {c.provider.APIKey},
		"dateFormat": {"iso"},
	})

	resp, err := c.transport.Fetch(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	if err := providers.ClassifyStatus(c.provider.ID, "events", resp); err != nil {
		return nil, err
	}

	var events []models.OddsAPIEvent
	if err := json.Unmarshal(resp.Body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	return events, nil
}

// FetchEventOdds fetches player-prop markets for a single event. The
// endpoint is rate-limited upstream, so callers pace and cap these requests.
func (c *Client) FetchEventOdds(ctx context.Context, sport, eventID string) (*models.OddsAPIGame, error) {
	if !c.provider.HasCredentials() {
		return nil, &providers.MissingCredentialError{Provider: c.provider.ID}
	}

	target := c.buildURL(fmt.Sprintf(c.provider.Endpoint("event_odds"), sport, eventID), url.Values{
		"apiKey":     {c.provider.APIKey},
		"regions":    {"us"},
		"markets":    {strings.Join(PropMarkets, ",")},
		"oddsFormat": {"american"},
	})

	resp, err := c.transport.Fetch(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event odds for %s: %w", eventID, err)
	}
	if err := providers.ClassifyStatus(c.provider.ID, "event odds", resp); err != nil {
		return nil, err
	}

	var game models.OddsAPIGame
	if err := json.Unmarshal(resp.Body, &game); err != nil {
		return nil, fmt.Errorf("failed to decode event odds response: %w", err)
	}
	return &game, nil
}

func (c *Client) oddsURL(sport string, variant QuerySpec) string {
	params := url.Values{
		"apiKey":     {c.provider.APIKey},
		"regions":    {"us"},
		"markets":    {strings.Join(variant.Markets, ",")},
		"oddsFormat": {"american"},
		"dateFormat": {"iso"},
	}
	if len(variant.Bookmakers) > 0 {
		params.Set("bookmakers", strings.Join(variant.Bookmakers, ","))
	}
	return c.buildURL(fmt.Sprintf(c.provider.Endpoint("odds"), sport), params)
}

func (c *Client) buildURL(path string, params url.Values) string {
	return c.provider.BaseURL + path + "?" + params.Encode()
}
