package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"directoryEngine/internal/models"
	"golang.org/x/oauth2"
)

// ErrNotConnected is returned when a location has no stored token for a
// provider.
var ErrNotConnected = WrapDatabaseError(ErrTypeNotFound, "connection not found", nil)

// SaveConnection stores a provider connection with its token encrypted.
// Reconnecting replaces the previous token.
func (app *App) SaveConnection(ctx context.Context, conn models.OAuthConnection, token *oauth2.Token) error {
	encrypted, err := app.encryptToken(token)
	if err != nil {
		return err
	}
	conn.TokenExpires = token.Expiry

	_, err = app.DB.ExecContext(ctx, `
		INSERT INTO oauth_connections (location_id, provider, account_id, account_name, company_id, scope,
			token, token_expires, connected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (location_id, provider) DO UPDATE SET
			account_id = excluded.account_id, account_name = excluded.account_name,
			company_id = excluded.company_id, scope = excluded.scope, token = excluded.token,
			token_expires = excluded.token_expires, connected_at = excluded.connected_at
	`, conn.LocationID, conn.Provider, conn.AccountID, conn.AccountName, conn.CompanyID, conn.Scope,
		encrypted, conn.TokenExpires, conn.ConnectedAt)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to save connection", err)
	}
	return nil
}

// GetConnection returns the connection details without the token.
func (app *App) GetConnection(ctx context.Context, locationID, provider string) (*models.OAuthConnection, error) {
	var conn models.OAuthConnection
	var expires sql.NullTime
	err := app.DB.QueryRowContext(ctx, `
		SELECT location_id, provider, account_id, account_name, company_id, scope, token_expires, connected_at
		FROM oauth_connections WHERE location_id = ? AND provider = ?
	`, locationID, provider).Scan(&conn.LocationID, &conn.Provider, &conn.AccountID, &conn.AccountName,
		&conn.CompanyID, &conn.Scope, &expires, &conn.ConnectedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query connection", err)
	}
	conn.TokenExpires = expires.Time
	return &conn, nil
}

// DeleteConnection forgets a provider token for a location.
func (app *App) DeleteConnection(ctx context.Context, locationID, provider string) error {
	_, err := app.DB.ExecContext(ctx,
		`DELETE FROM oauth_connections WHERE location_id = ? AND provider = ?`, locationID, provider)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to delete connection", err)
	}
	return nil
}

func (app *App) encryptToken(token *oauth2.Token) (string, error) {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token: %w", err)
	}
	encrypted, err := app.Encryption.Encrypt(string(tokenJSON))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return encrypted, nil
}

// getDecryptedToken retrieves and decrypts the stored token of a connection
func (app *App) getDecryptedToken(ctx context.Context, locationID, provider string) (*oauth2.Token, error) {
	var encrypted string
	err := app.DB.QueryRowContext(ctx,
		`SELECT token FROM oauth_connections WHERE location_id = ? AND provider = ?`,
		locationID, provider).Scan(&encrypted)
	if err == sql.ErrNoRows {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query token", err)
	}

	tokenJSON, err := app.Encryption.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s token for location %s: %w", provider, locationID, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenJSON), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

// refreshTokenIfNeeded lets the oauth2 token source refresh an expired
// token and persists the replacement.
func (app *App) refreshTokenIfNeeded(ctx context.Context, cfg *oauth2.Config, locationID, provider string, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("%s token expired and no refresh token is available", provider)
	}

	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	newToken, err := cfg.TokenSource(refreshCtx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s token: %w", provider, err)
	}

	if newToken.AccessToken != token.AccessToken {
		if err := app.saveRefreshedToken(ctx, locationID, provider, newToken); err != nil {
			app.Logger.WithError(err).WithFields(map[string]interface{}{
				"location_id": locationID,
				"provider":    provider,
			}).Warn("Failed to save refreshed token")
		}
	}
	return newToken, nil
}

func (app *App) saveRefreshedToken(ctx context.Context, locationID, provider string, token *oauth2.Token) error {
	encrypted, err := app.encryptToken(token)
	if err != nil {
		return err
	}
	_, err = app.DB.ExecContext(ctx, `
		UPDATE oauth_connections SET token = ?, token_expires = ?
		WHERE location_id = ? AND provider = ?
	`, encrypted, token.Expiry, locationID, provider)
	return err
}

// authorizedClient returns an HTTP client that sends the location's
// provider token.
func (app *App) authorizedClient(ctx context.Context, cfg *oauth2.Config, locationID, provider string) (*http.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%s is not configured", provider)
	}
	token, err := app.getDecryptedToken(ctx, locationID, provider)
	if err != nil {
		return nil, err
	}
	token, err = app.refreshTokenIfNeeded(ctx, cfg, locationID, provider, token)
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx, token), nil
}
