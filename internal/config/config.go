package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"app_env"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`
	StoreDriver string `mapstructure:"store_driver"` // postgres or memory

	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`
	OriginPatterns []string `mapstructure:"origin_patterns"`

	RedisURL string `mapstructure:"redis_url"`

	B2BAPIKeys    []string `mapstructure:"b2b_api_keys"`
	B2BRateLimit  float64  `mapstructure:"b2b_rate_limit"`
	AuthRateLimit float64  `mapstructure:"auth_rate_limit"`

	TrustedProxies []string `mapstructure:"trusted_proxies"`

	UploadDir     string        `mapstructure:"upload_dir"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`

	GmailCredentialsFile string `mapstructure:"gmail_credentials_file"`
	GmailTokenFile       string `mapstructure:"gmail_token_file"`
	MailFrom             string `mapstructure:"mail_from"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

var defaults = map[string]any{
	"port":                   "8080",
	"app_env":                "development",
	"log_level":              "info",
	"database_url":           "host=localhost user=postgres password=password dbname=jobportal port=5432 sslmode=disable",
	"store_driver":           "postgres",
	"jwt_secret":             "",
	"token_ttl":              "24h",
	"cookie_max_age":         "168h",
	"allowed_origins":        []string{"http://localhost:5173", "http://localhost:3000"},
	"origin_patterns":        []string{".vercel.app", ".netlify.app", ".onrender.com"},
	"redis_url":              "",
	"b2b_api_keys":           []string{},
	"b2b_rate_limit":         5.0,
	"auth_rate_limit":        2.0,
	"trusted_proxies":        []string{},
	"upload_dir":             "./uploads",
	"public_base_url":        "http://localhost:8080",
	"upload_timeout":         "5m",
	"gmail_credentials_file": "",
	"gmail_token_file":       "",
	"mail_from":              "",
	"gemini_api_key":         "",
	"gemini_model":           "gemini-2.5-flash",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	cfg.OriginPatterns = splitList(cfg.OriginPatterns)
	cfg.B2BAPIKeys = splitList(cfg.B2BAPIKeys)
	cfg.TrustedProxies = splitList(cfg.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// splitList normalizes list values; env vars arrive as a single comma-joined item.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
