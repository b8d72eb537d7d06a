package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/gdrive"
	"directoryEngine/internal/ghl"
	"directoryEngine/internal/services"
	"directoryEngine/internal/utils"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

type App struct {
	DB           *sql.DB
	SessionStore *sessions.CookieStore
	Config       *Config
	Logger       *Logger

	Encryption *services.EncryptionService
	Sessions   *services.SessionService
	Generator  *codegen.Generator

	// Nil when the provider has no client credentials.
	GHLOAuth   *oauth2.Config
	DriveOAuth *oauth2.Config

	CodeCache   codeCache
	Wizards     *utils.Cache
	FormLimiter *RateLimiter
	Templates   *TemplateCache

	redis   *redis.Client
	closers []func() error
}

// NewApp wires the application from config. The caller owns the returned
// App and must Close it.
func NewApp(ctx context.Context, config *Config, logger *Logger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{
		Config:      config,
		Logger:      logger,
		Sessions:    services.NewSessionService(config.SessionMaxAge),
		Generator:   codegen.NewGenerator(nil),
		GHLOAuth:    ghl.OAuthConfig(config.GHLClientID, config.GHLClientSecret, config.GHLRedirectURL, config.Scopes()),
		DriveOAuth:  gdrive.OAuthConfig(config.GoogleClientID, config.GoogleClientSecret, config.GoogleRedirectURL),
		Wizards:     utils.NewCache(time.Duration(config.WizardSessionTTL) * time.Second),
		FormLimiter: NewRateLimiter(config.FormRatePerMinute, config.FormRateBurst),
		Templates:   NewTemplateCache(),
	}

	app.SessionStore = sessions.NewCookieStore([]byte(config.SessionSecret))
	app.SessionStore.MaxAge(config.SessionMaxAge)
	app.SessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   config.SessionMaxAge,
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode, // Lax so OAuth redirects keep the session
	}

	encryption, err := services.NewEncryptionService([]byte(config.SessionSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	app.Encryption = encryption

	app.DB, err = OpenDatabase(ctx, config.DatabasePath)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, app.DB.Close)

	cacheTTL := time.Duration(config.EmbedCacheTTL) * time.Second
	if config.RedisURL != "" {
		client, err := utils.NewRedisClient(ctx, config.RedisURL, config.RedisPassword)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = client
		app.closers = append(app.closers, client.Close)
		app.CodeCache = &redisCodeCache{
			cache:  utils.NewRedisCache(client, "directory-engine:embed:"),
			ttl:    cacheTTL,
			logger: logger.Named("embed-cache"),
		}
		logger.WithField("addr", config.RedisURL).Info("Embed code cache using redis")
	} else {
		app.CodeCache = newMemoryCodeCache(cacheTTL)
	}

	app.FormLimiter.StartCleanupRoutine()

	logger.WithFields(map[string]interface{}{
		"environment":      config.Environment,
		"database":         config.DatabasePath,
		"ghl_configured":   app.GHLOAuth != nil,
		"drive_configured": app.DriveOAuth != nil,
	}).Info("Application initialized")
	return app, nil
}

// Close stops background work and releases connections.
func (app *App) Close() error {
	if app.FormLimiter != nil {
		app.FormLimiter.Stop()
	}
	if app.Wizards != nil {
		app.Wizards.Close()
	}
	if m, ok := app.CodeCache.(*memoryCodeCache); ok {
		m.cache.Close()
	}

	var firstErr error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	app.closers = nil
	return firstErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
