package models

// ProviderStatus tags how a source is accessed.
type ProviderStatus string

const (
	// ProviderAvailable means the source exposes a supported JSON API.
	ProviderAvailable ProviderStatus = "available"
	// ProviderScraping marks sources that would require HTML scraping.
	// They stay in the registry for visibility but are skipped by the
	// aggregation facade.
	ProviderScraping ProviderStatus = "scraping"
)

// ProviderConfig is a static descriptor for one odds source. Everything but
// APIKey is immutable after registry load; APIKey is applied once when
// credentials are supplied and is read-only during fetches.
type ProviderConfig struct {
	ID            string            `json:"id"`
	DisplayName   string            `json:"display_name"`
	BaseURL       string            `json:"base_url"`
	Endpoints     map[string]string `json:"endpoints"`
	APIKey        string            `json:"-"`
	RequiresProxy bool              `json:"requires_proxy"`
	Status        ProviderStatus    `json:"status"`
}

// HasCredentials reports whether the provider can be fetched at all.
// Scraping-status providers are keyless by definition.
func (p *ProviderConfig) HasCredentials() bool {
	return p.APIKey != ""
}

// Endpoint returns the path template registered under name, or "".
func (p *ProviderConfig) Endpoint(name string) string {
	return p.Endpoints[name]
}
