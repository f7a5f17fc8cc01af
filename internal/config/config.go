package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Credentials CredentialsConfig
	Fetch       FetchConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CredentialsConfig holds per-provider API keys. Keys may be supplied either
// in plain text or obfuscated with the key codec (the *Enc variants win when
// both are set).
type CredentialsConfig struct {
	OddsAPIKey     string
	OddsAPIKeyEnc  string
	RapidAPIKey    string
	RapidAPIKeyEnc string
}

type FetchConfig struct {
	Sport          string
	TimeoutSeconds int
	CacheTTL       int
	ForceProxy     bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "odds"),
			Password: getEnv("DB_PASSWORD", "odds123"),
			DBName:   getEnv("DB_NAME", "odds_core"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Credentials: CredentialsConfig{
			OddsAPIKey:     getEnv("ODDS_API_KEY", ""),
			OddsAPIKeyEnc:  getEnv("ODDS_API_KEY_ENC", ""),
			RapidAPIKey:    getEnv("RAPIDAPI_KEY", ""),
			RapidAPIKeyEnc: getEnv("RAPIDAPI_KEY_ENC", ""),
		},
		Fetch: FetchConfig{
			Sport:          getEnv("ODDS_SPORT", "americanfootball_nfl"),
			TimeoutSeconds: getEnvAsInt("ODDS_FETCH_TIMEOUT", 15),
			CacheTTL:       getEnvAsInt("ODDS_CACHE_TTL", 45),
			ForceProxy:     getEnvAsBool("ODDS_FORCE_PROXY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (c *Config) DatabaseURL() string {
	// If DATABASE_URL is set, use it directly
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		return databaseURL
	}

	// Otherwise, construct from individual components
	return "postgres://" + c.Database.User + ":" + c.Database.Password +
		"@" + c.Database.Host + ":" + c.Database.Port +
		"/" + c.Database.DBName + "?sslmode=" + c.Database.SSLMode
}

// SnapshotsEnabled reports whether a snapshot store should be attached.
// Persistence is opt-in; the pipeline runs fine without a database.
func (c *Config) SnapshotsEnabled() bool {
	return os.Getenv("DATABASE_URL") != ""
}
