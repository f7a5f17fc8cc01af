package providers

import (
	"testing"

	"github.com/iby-analytics/odds-core/internal/config"
	"github.com/iby-analytics/odds-core/pkg/keycodec"
	"github.com/iby-analytics/odds-core/pkg/logger"
	"github.com/iby-analytics/odds-core/pkg/models"
)

func TestRegistryFetchableExcludesScrapingProviders(t *testing.T) {
	r := NewRegistry()

	fetchable := r.Fetchable()
	if len(fetchable) != 2 {
		t.Fatalf("expected 2 fetchable providers, got %d", len(fetchable))
	}
	for _, p := range fetchable {
		if p.ID == ESPN {
			t.Error("scraping-status provider must not be fetchable")
		}
		if p.Status != models.ProviderAvailable {
			t.Errorf("provider %s: expected available status, got %s", p.ID, p.Status)
		}
	}
}

func TestRegistryApplyCredentials(t *testing.T) {
	r := NewRegistry()

	if r.AnyCredentials() {
		t.Error("fresh registry should report no credentials")
	}

	r.ApplyCredentials(Credentials{OddsAPI: "abc123"})

	if !r.AnyCredentials() {
		t.Error("expected credentials after applying a key")
	}

	oddsapi, _ := r.Get(OddsAPI)
	if oddsapi.APIKey != "abc123" {
		t.Errorf("expected key on oddsapi descriptor, got %q", oddsapi.APIKey)
	}
	apisports, _ := r.Get(APISports)
	if apisports.HasCredentials() {
		t.Error("apisports should remain unconfigured")
	}
}

func TestCredentialsFromConfigPrefersObfuscated(t *testing.T) {
	cfg := &config.Config{}
	cfg.Credentials.OddsAPIKey = "plainkey"
	cfg.Credentials.OddsAPIKeyEnc = keycodec.Encode("secretkey")

	creds := CredentialsFromConfig(cfg, logger.New("test"))
	if creds.OddsAPI != "secretkey" {
		t.Errorf("expected decoded obfuscated key to win, got %q", creds.OddsAPI)
	}
}

func TestCredentialsFromConfigBadCipherFallsBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.Credentials.RapidAPIKey = "plainkey"
	cfg.Credentials.RapidAPIKeyEnc = "!!!not-base64!!!"

	creds := CredentialsFromConfig(cfg, logger.New("test"))
	if creds.RapidAPI != "plainkey" {
		t.Errorf("undecodable cipher should fall back to the plain key, got %q", creds.RapidAPI)
	}
}
