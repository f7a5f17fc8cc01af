package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/iby-analytics/odds-core/pkg/models"
	"github.com/iby-analytics/odds-core/pkg/providers"
	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
)

// mockTransport replays a fixed sequence of responses and records every
// request URL.
type mockTransport struct {
	steps []mockStep
	calls int
	urls  []string
}

type mockStep struct {
	resp *proxyfetch.Response
	err  error
}

func (m *mockTransport) Fetch(ctx context.Context, rawURL string, opts *proxyfetch.Options) (*proxyfetch.Response, error) {
	m.urls = append(m.urls, rawURL)
	step := m.steps[m.calls]
	m.calls++
	return step.resp, step.err
}

func status(code int) mockStep {
	return mockStep{resp: &proxyfetch.Response{StatusCode: code, Body: []byte(`{}`), Header: http.Header{}}}
}

func body(code int, payload string) mockStep {
	return mockStep{resp: &proxyfetch.Response{StatusCode: code, Body: []byte(payload), Header: http.Header{}}}
}

func testProvider(apiKey string) *models.ProviderConfig {
	return &models.ProviderConfig{
		ID:      providers.OddsAPI,
		BaseURL: "https://api.example.test/v4",
		Endpoints: map[string]string{
			"odds":       "/sports/%s/odds",
			"events":     "/sports/%s/events",
			"event_odds": "/sports/%s/events/%s/odds",
		},
		APIKey: apiKey,
		Status: models.ProviderAvailable,
	}
}

const oneGamePayload = `[{
	"id": "abc",
	"home_team": "Kansas City Chiefs",
	"away_team": "Denver Broncos",
	"commence_time": "2026-09-10T00:20:00Z",
	"bookmakers": [{
		"key": "draftkings",
		"title": "DraftKings",
		"markets": [{
			"key": "h2h",
			"outcomes": [
				{"name": "Kansas City Chiefs", "price": -150},
				{"name": "Denver Broncos", "price": 130}
			]
		}]
	}]
}]`

func TestFetchGamesMissingCredentials(t *testing.T) {
	transport := &mockTransport{}
	client := NewClient(testProvider(""), transport)

	_, err := client.FetchGames(context.Background(), "americanfootball_nfl")

	var missing *providers.MissingCredentialError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingCredentialError, got %T: %v", err, err)
	}
	if transport.calls != 0 {
		t.Errorf("expected no requests without credentials, got %d", transport.calls)
	}
}

func TestFetchGamesUnauthorizedShortCircuits(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{status(http.StatusUnauthorized)}}
	client := NewClient(testProvider("key"), transport)

	_, err := client.FetchGames(context.Background(), "americanfootball_nfl")

	var invalid *providers.InvalidCredentialError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCredentialError, got %T: %v", err, err)
	}
	if transport.calls != 1 {
		t.Errorf("401 must abort the ladder after 1 request, got %d", transport.calls)
	}
}

func TestFetchGamesRateLimitShortCircuits(t *testing.T) {
	step := status(http.StatusTooManyRequests)
	step.resp.Header.Set("Retry-After", "30")
	transport := &mockTransport{steps: []mockStep{step}}
	client := NewClient(testProvider("key"), transport)

	_, err := client.FetchGames(context.Background(), "americanfootball_nfl")

	var rateLimit *providers.RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rateLimit.RetryAfter != "30" {
		t.Errorf("expected Retry-After to be captured, got %q", rateLimit.RetryAfter)
	}
	if transport.calls != 1 {
		t.Errorf("429 must abort the ladder after 1 request, got %d", transport.calls)
	}
}

func TestFetchGamesServerErrorShortCircuits(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{status(http.StatusBadGateway)}}
	client := NewClient(testProvider("key"), transport)

	_, err := client.FetchGames(context.Background(), "americanfootball_nfl")

	var upstream *providers.UpstreamServerError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamServerError, got %T: %v", err, err)
	}
	if transport.calls != 1 {
		t.Errorf("5xx must abort the ladder after 1 request, got %d", transport.calls)
	}
}

func TestFetchGamesRetriesNarrowerVariant(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{
		status(http.StatusUnprocessableEntity),
		body(http.StatusOK, oneGamePayload),
	}}
	client := NewClient(testProvider("key"), transport)

	games, err := client.FetchGames(context.Background(), "americanfootball_nfl")
	if err != nil {
		t.Fatalf("expected second variant to succeed, got error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if games[0].ID != "abc" {
		t.Errorf("expected game id abc, got %s", games[0].ID)
	}
	if transport.calls != 2 {
		t.Errorf("expected exactly 2 requests, got %d", transport.calls)
	}

	// The second request must be a narrower variant than the first.
	if !strings.Contains(transport.urls[0], "bookmakers=") {
		t.Errorf("first variant should name bookmakers: %s", transport.urls[0])
	}
	if strings.Contains(transport.urls[1], "bookmakers=") {
		t.Errorf("second variant should drop the bookmaker restriction: %s", transport.urls[1])
	}
}

func TestFetchGamesAllVariantsExhausted(t *testing.T) {
	var steps []mockStep
	for range DefaultLadder() {
		steps = append(steps, status(http.StatusUnprocessableEntity))
	}
	transport := &mockTransport{steps: steps}
	client := NewClient(testProvider("key"), transport)

	_, err := client.FetchGames(context.Background(), "americanfootball_nfl")

	var exhausted *providers.AllVariantsExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected AllVariantsExhaustedError, got %T: %v", err, err)
	}
	if transport.calls != len(DefaultLadder()) {
		t.Errorf("expected %d requests, got %d", len(DefaultLadder()), transport.calls)
	}
	if exhausted.Attempts != len(DefaultLadder()) {
		t.Errorf("expected %d attempts reported, got %d", len(DefaultLadder()), exhausted.Attempts)
	}
}

func TestFetchGamesEmptyBodyIsValid(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{body(http.StatusOK, `[]`)}}
	client := NewClient(testProvider("key"), transport)

	games, err := client.FetchGames(context.Background(), "americanfootball_nfl")
	if err != nil {
		t.Fatalf("empty array is a valid off-season result, got error: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("expected 0 games, got %d", len(games))
	}
	if transport.calls != 1 {
		t.Errorf("expected 1 request, got %d", transport.calls)
	}
}

func TestFetchGamesGarbageBodyIsRetryable(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{
		body(http.StatusOK, `<html>relay error page</html>`),
		body(http.StatusOK, oneGamePayload),
	}}
	client := NewClient(testProvider("key"), transport)

	games, err := client.FetchGames(context.Background(), "americanfootball_nfl")
	if err != nil {
		t.Fatalf("expected retry after undecodable body, got error: %v", err)
	}
	if len(games) != 1 {
		t.Errorf("expected 1 game, got %d", len(games))
	}
	if transport.calls != 2 {
		t.Errorf("expected 2 requests, got %d", transport.calls)
	}
}

func TestFetchEventOdds(t *testing.T) {
	transport := &mockTransport{steps: []mockStep{body(http.StatusOK, `{
		"id": "abc",
		"home_team": "Kansas City Chiefs",
		"away_team": "Denver Broncos",
		"bookmakers": [{
			"key": "fanduel",
			"title": "FanDuel",
			"markets": [{
				"key": "player_pass_yds",
				"outcomes": [
					{"name": "Over", "description": "Patrick Mahomes", "price": -110, "point": 274.5}
				]
			}]
		}]
	}`)}}
	client := NewClient(testProvider("key"), transport)

	game, err := client.FetchEventOdds(context.Background(), "americanfootball_nfl", "abc")
	if err != nil {
		t.Fatalf("expected event odds fetch to succeed, got error: %v", err)
	}
	if len(game.Bookmakers) != 1 {
		t.Fatalf("expected 1 bookmaker, got %d", len(game.Bookmakers))
	}
	if !strings.Contains(transport.urls[0], "/events/abc/odds") {
		t.Errorf("expected per-event endpoint, got %s", transport.urls[0])
	}
	if !strings.Contains(transport.urls[0], "player_pass_yds") {
		t.Errorf("expected prop markets in query, got %s", transport.urls[0])
	}
}
