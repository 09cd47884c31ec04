package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the configuration for every service binary, loadable from
// environment variables (CMS_ prefix), flags, or YAML config files. Each
// binary reads the same Config and uses the section it needs.
type Config struct {
	DatabaseURL string `usage:"PostgreSQL connection URL (CMS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret   string `usage:"HMAC secret for signing bearer tokens (CMS_JWT_SECRET)" flag:"jwt-secret"`
	TokenTTL    time.Duration `default:"24h" usage:"Bearer token lifetime" flag:"token-ttl"`
	Environment string `default:"development" usage:"Deployment environment (development, production)"`

	CustomerAddr string `default:"0.0.0.0:8081" usage:"Customer service listen address" flag:"customer-addr"`
	ProductAddr  string `default:"0.0.0.0:8082" usage:"Product service listen address" flag:"product-addr"`
	ConsentAddr  string `default:"0.0.0.0:8083" usage:"Consent service listen address" flag:"consent-addr"`
	OrderAddr    string `default:"0.0.0.0:8084" usage:"Order service listen address" flag:"order-addr"`
	AuditAddr    string `default:"0.0.0.0:8085" usage:"Audit service listen address" flag:"audit-addr"`
	GatewayAddr  string `default:"0.0.0.0:8080" usage:"Gateway listen address" flag:"gateway-addr"`

	Upstream  UpstreamConfig
	Client    ClientConfig
	Recorder  RecorderConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// UpstreamConfig holds the base URLs services use to reach each other.
// The order workflow calls product, consent, and audit; the gateway
// proxies to all five backends.
type UpstreamConfig struct {
	CustomerURL string `default:"http://localhost:8081" usage:"Customer service base URL" flag:"customer-url"`
	ProductURL  string `default:"http://localhost:8082" usage:"Product service base URL" flag:"product-url"`
	ConsentURL  string `default:"http://localhost:8083" usage:"Consent service base URL" flag:"consent-url"`
	OrderURL    string `default:"http://localhost:8084" usage:"Order service base URL" flag:"order-url"`
	AuditURL    string `default:"http://localhost:8085" usage:"Audit service base URL" flag:"audit-url"`
}

// ClientConfig controls the inter-service HTTP clients.
type ClientConfig struct {
	Timeout time.Duration `default:"10s" usage:"Per-attempt upstream request timeout"`
	Retries int           `default:"1" usage:"Retries after a transport failure"`
}

// RecorderConfig controls the best-effort audit emission queue.
type RecorderConfig struct {
	Buffer  int           `default:"256" usage:"Audit queue capacity"`
	Timeout time.Duration `default:"10s" usage:"Per-write audit timeout"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CMS",
		Files:     []string{"config.yaml", "/etc/cms/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	return &cfg, nil
}

// requireDatabase is called by the binaries that own a Postgres store.
// The gateway has no database and skips it.
func (c *Config) requireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required: set CMS_DATABASE_URL or DATABASE_URL")
	}
	return nil
}

func (c *Config) requireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT secret is required: set CMS_JWT_SECRET")
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL to the
// CMS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
}

// withPortEnv honors a platform-provided PORT variable for whichever
// binary is running, but only when the address was left at its default.
func withPortEnv(addr, def string) string {
	if port := os.Getenv("PORT"); port != "" && addr == def {
		return "0.0.0.0:" + port
	}
	return addr
}

func (c *Config) production() bool {
	return c.Environment == "production"
}
