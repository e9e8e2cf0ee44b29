package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	App      AppConfig
	API      APIConfig
	Callback CallbackConfig
	Provider ProviderConfig
	Store    StoreConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"atoma-accounts-client"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
}

// APIConfig holds the remote API endpoints. Explicit URLs win; otherwise the
// endpoint is derived from the environment name, service short-name and
// hosted zone.
type APIConfig struct {
	EnvName    string `envconfig:"API_ENV_NAME" default:"dev"`
	HostedZone string `envconfig:"API_HOSTED_ZONE" default:"atoma.cloud"`

	AuthService  string `envconfig:"API_AUTH_SERVICE" default:"auth"`
	TitleService string `envconfig:"API_TITLE_SERVICE" default:"td"`
	StoreService string `envconfig:"API_STORE_SERVICE" default:"td"`

	AuthURL  string `envconfig:"API_AUTH_URL" default:""`
	TitleURL string `envconfig:"API_TITLE_URL" default:""`
	StoreURL string `envconfig:"API_STORE_URL" default:""`

	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"20s"`
}

// CallbackConfig holds settings for the local HTTP server that receives
// identity-provider redirects.
type CallbackConfig struct {
	Host            string        `envconfig:"CALLBACK_HOST" default:"127.0.0.1"`
	Port            int           `envconfig:"CALLBACK_PORT" default:"8321"`
	ReadTimeout     time.Duration `envconfig:"CALLBACK_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"CALLBACK_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"CALLBACK_SHUTDOWN_TIMEOUT" default:"30s"`
}

// ProviderConfig holds identity-provider settings.
type ProviderConfig struct {
	TwitchClientID string `envconfig:"TWITCH_CLIENT_ID" default:""`
	XboxClientID   string `envconfig:"XBOX_CLIENT_ID" default:""`

	// RedirectURL overrides the redirect target registered with the
	// providers. Defaults to the callback server's /linking endpoint.
	RedirectURL string `envconfig:"PROVIDER_REDIRECT_URL" default:""`
}

// StoreConfig holds persistent session store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite, redis, mysql, or memory
	Path string `envconfig:"STORE_PATH" default:"./data/session.db"`

	RedisHost     string `envconfig:"STORE_REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"STORE_REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"STORE_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"STORE_REDIS_DB" default:"0"`

	MySQLHost     string `envconfig:"STORE_MYSQL_HOST" default:"localhost"`
	MySQLPort     int    `envconfig:"STORE_MYSQL_PORT" default:"3306"`
	MySQLName     string `envconfig:"STORE_MYSQL_NAME" default:"atoma"`
	MySQLUser     string `envconfig:"STORE_MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"STORE_MYSQL_PASS" default:""`
}

// serviceURL derives an endpoint from the bsp naming scheme unless an
// explicit URL is configured.
func (a *APIConfig) serviceURL(override, service string) string {
	if override != "" {
		return override
	}
	return fmt.Sprintf("https://bsp-%s-%s.%s", service, a.EnvName, a.HostedZone)
}

// AuthAPIURL returns the base URL of the queue-gated auth API.
func (a *APIConfig) AuthAPIURL() string {
	return a.serviceURL(a.AuthURL, a.AuthService)
}

// TitleAPIURL returns the base URL of the title API.
func (a *APIConfig) TitleAPIURL() string {
	return a.serviceURL(a.TitleURL, a.TitleService)
}

// StoreAPIURL returns the base URL of the store API.
func (a *APIConfig) StoreAPIURL() string {
	return a.serviceURL(a.StoreURL, a.StoreService)
}

// Address returns the callback server address in host:port format.
func (c *CallbackConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Origin returns the callback server origin as seen by the providers.
func (c *CallbackConfig) Origin() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (s *StoreConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPassword, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
