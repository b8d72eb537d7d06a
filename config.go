package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. DE_PORT.
const EnvPrefix = "DE_"

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "directory-engine.yaml"

type Config struct {
	Environment   string `yaml:"environment" koanf:"environment"`
	Port          string `yaml:"port" koanf:"port"`
	BaseURL       string `yaml:"base_url" koanf:"base_url"`
	DatabasePath  string `yaml:"database_path" koanf:"database_path"`
	SessionSecret string `yaml:"session_secret" koanf:"session_secret"`
	SessionMaxAge int    `yaml:"session_max_age" koanf:"session_max_age"`
	LogLevel      string `yaml:"log_level" koanf:"log_level"`
	LogFile       string `yaml:"log_file" koanf:"log_file"`

	GHLClientID     string `yaml:"ghl_client_id" koanf:"ghl_client_id"`
	GHLClientSecret string `yaml:"ghl_client_secret" koanf:"ghl_client_secret"`
	GHLRedirectURL  string `yaml:"ghl_redirect_url" koanf:"ghl_redirect_url"`
	GHLAPIBase      string `yaml:"ghl_api_base" koanf:"ghl_api_base"`
	GHLScopes       string `yaml:"ghl_scopes" koanf:"ghl_scopes"`

	GoogleClientID     string `yaml:"google_client_id" koanf:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret" koanf:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url" koanf:"google_redirect_url"`

	// Empty RedisURL keeps the embed-code cache in memory.
	RedisURL      string `yaml:"redis_url" koanf:"redis_url"`
	RedisPassword string `yaml:"redis_password" koanf:"redis_password"`
	EmbedCacheTTL int    `yaml:"embed_cache_ttl" koanf:"embed_cache_ttl"`

	FormRatePerMinute int    `yaml:"form_rate_per_minute" koanf:"form_rate_per_minute"`
	FormRateBurst     int    `yaml:"form_rate_burst" koanf:"form_rate_burst"`
	CORSOrigins       string `yaml:"cors_origins" koanf:"cors_origins"`
	WizardSessionTTL  int    `yaml:"wizard_session_ttl" koanf:"wizard_session_ttl"`
	LogoMaxWidth      int    `yaml:"logo_max_width" koanf:"logo_max_width"`
}

// DefaultConfig returns the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment:       "development",
		Port:              "8080",
		BaseURL:           "http://localhost:8080",
		DatabasePath:      "./directory-engine.db",
		SessionMaxAge:     86400,
		LogLevel:          "INFO",
		GHLRedirectURL:    "http://localhost:8080/api/oauth/ghl/callback",
		GoogleRedirectURL: "http://localhost:8080/api/google-drive/callback",
		EmbedCacheTTL:     600,
		FormRatePerMinute: 10,
		FormRateBurst:     5,
		CORSOrigins:       "*",
		WizardSessionTTL:  3600,
		LogoMaxWidth:      512,
	}
}

// LoadConfig reads .env, then the YAML file at path if it exists, then
// DE_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	k := koanf.New(".")
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return config, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings the server needs to start.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required (set %sSESSION_SECRET)", EnvPrefix)
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("session_secret must be at least 32 characters long")
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}
	if c.EmbedCacheTTL <= 0 || c.WizardSessionTTL <= 0 {
		return fmt.Errorf("embed_cache_ttl and wizard_session_ttl must be positive")
	}
	if c.FormRatePerMinute <= 0 || c.FormRateBurst <= 0 {
		return fmt.Errorf("form rate limits must be positive")
	}
	if (c.GHLClientID == "") != (c.GHLClientSecret == "") {
		return fmt.Errorf("ghl_client_id and ghl_client_secret must be set together")
	}
	if (c.GoogleClientID == "") != (c.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}
	return nil
}

// IsProduction reports whether dev-only routes must be disabled.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Scopes splits the space or comma separated GHL scope list.
func (c *Config) Scopes() []string {
	return strings.FieldsFunc(c.GHLScopes, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
