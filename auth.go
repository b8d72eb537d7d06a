package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"directoryEngine/internal/ghl"
	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"golang.org/x/oauth2"
)

// OAuth callback error codes shown by /oauth/error
const (
	OAuthErrAccessDenied  = "access_denied"
	OAuthErrNoCode        = "no_code"
	OAuthErrTokenExchange = "token_exchange_failed"
	OAuthErrUserInfo      = "user_info_failed"
	OAuthErrCallback      = "callback_failed"
)

var oauthErrorMessages = map[string]string{
	OAuthErrAccessDenied:  "Access was denied. Please approve the requested permissions to connect your account.",
	OAuthErrNoCode:        "No authorization code was received from the provider.",
	OAuthErrTokenExchange: "We could not complete the connection with the provider. Please try again.",
	OAuthErrUserInfo:      "We connected, but could not read your account details.",
	OAuthErrCallback:      "Something went wrong while finishing the connection.",
}

// oauthErrorMessage maps a callback error code to its page text.
// Unknown codes read as a generic callback failure.
func oauthErrorMessage(code string) string {
	if msg, ok := oauthErrorMessages[code]; ok {
		return msg
	}
	return oauthErrorMessages[OAuthErrCallback]
}

// oauthStartURL restarts the flow of a provider.
func oauthStartURL(provider string) string {
	if provider == models.ProviderGoogleDrive {
		return "/api/google-drive/connect"
	}
	return "/api/oauth/ghl/start"
}

// beginOAuth stores a fresh state in the oauth session and redirects to
// the provider.
func (app *App) beginOAuth(w http.ResponseWriter, r *http.Request, provider string, cfg *oauth2.Config, opts ...oauth2.AuthCodeOption) {
	state, err := GenerateSecureToken(16)
	if err != nil {
		app.Logger.WithError(err).Error("Failed to generate OAuth state")
		utils.InternalServerError(w, "Internal server error")
		return
	}

	session, _ := app.SessionStore.Get(r, oauthSessionName)
	session.Values["state"] = state
	session.Values["provider"] = provider
	session.Options.MaxAge = 600
	if err := session.Save(r, w); err != nil {
		app.Logger.WithError(err).Error("Failed to save OAuth session")
		utils.InternalServerError(w, "Session error")
		return
	}

	opts = append([]oauth2.AuthCodeOption{oauth2.AccessTypeOffline}, opts...)
	http.Redirect(w, r, cfg.AuthCodeURL(state, opts...), http.StatusTemporaryRedirect)
}

// finishOAuth validates the callback parameters against the stored state
// and returns the authorization code, or an error code for /oauth/error.
func (app *App) finishOAuth(w http.ResponseWriter, r *http.Request, provider string) (string, string) {
	session, err := app.SessionStore.Get(r, oauthSessionName)
	if err != nil {
		return "", OAuthErrCallback
	}
	expectedState, _ := session.Values["state"].(string)
	storedProvider, _ := session.Values["provider"].(string)

	// The state is single use
	delete(session.Values, "state")
	delete(session.Values, "provider")
	session.Save(r, w)

	query := r.URL.Query()
	if errorCode := query.Get("error"); errorCode != "" {
		if errorCode == OAuthErrAccessDenied {
			return "", OAuthErrAccessDenied
		}
		return "", OAuthErrCallback
	}
	if expectedState == "" || storedProvider != provider || query.Get("state") != expectedState {
		return "", OAuthErrCallback
	}

	code := query.Get("code")
	if code == "" {
		return "", OAuthErrNoCode
	}
	return code, ""
}

func (app *App) redirectOAuthError(w http.ResponseWriter, r *http.Request, provider, code string, err error) {
	entry := app.Logger.WithFields(map[string]interface{}{
		"provider":   provider,
		"error_code": code,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("OAuth callback failed")

	q := url.Values{"code": {code}, "provider": {provider}}
	http.Redirect(w, r, "/oauth/error?"+q.Encode(), http.StatusSeeOther)
}

// handleGHLStart initiates the marketplace install flow.
func (app *App) handleGHLStart(w http.ResponseWriter, r *http.Request) {
	if app.GHLOAuth == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "GoHighLevel authentication not configured")
		return
	}
	app.beginOAuth(w, r, models.ProviderGHL, app.GHLOAuth)
}

// handleGHLCallback exchanges the code, records the connection and binds
// the browser session to the chosen location.
func (app *App) handleGHLCallback(w http.ResponseWriter, r *http.Request) {
	if app.GHLOAuth == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "GoHighLevel authentication not configured")
		return
	}

	code, errCode := app.finishOAuth(w, r, models.ProviderGHL)
	if errCode != "" {
		app.redirectOAuthError(w, r, models.ProviderGHL, errCode, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token, err := app.GHLOAuth.Exchange(ctx, code)
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGHL, OAuthErrTokenExchange, err)
		return
	}

	identity, err := ghl.IdentityFromToken(token)
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGHL, OAuthErrUserInfo, err)
		return
	}

	client := ghl.NewClient(app.GHLOAuth.Client(ctx, token), app.Config.GHLAPIBase)
	location, err := client.GetLocation(ctx, identity.LocationID)
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGHL, OAuthErrUserInfo, err)
		return
	}

	scope, _ := token.Extra("scope").(string)
	conn := models.OAuthConnection{
		LocationID:  identity.LocationID,
		Provider:    models.ProviderGHL,
		AccountID:   identity.UserID,
		AccountName: location.Name,
		CompanyID:   identity.CompanyID,
		Scope:       scope,
		ConnectedAt: time.Now().UTC(),
	}
	if err := app.SaveConnection(ctx, conn, token); err != nil {
		app.redirectOAuthError(w, r, models.ProviderGHL, OAuthErrCallback, err)
		return
	}

	err = app.saveSession(w, r, models.SessionData{
		LocationID: identity.LocationID,
		UserID:     identity.UserID,
		CompanyID:  identity.CompanyID,
	})
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGHL, OAuthErrCallback, err)
		return
	}

	app.Logger.WithFields(map[string]interface{}{
		"location_id": identity.LocationID,
		"company_id":  identity.CompanyID,
	}).Info("GoHighLevel location connected")

	http.Redirect(w, r, "/oauth/success?provider="+models.ProviderGHL, http.StatusSeeOther)
}

// handleOAuthError renders the static message for a callback error code
// with a link that restarts the redirect.
func (app *App) handleOAuthError(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if _, known := oauthErrorMessages[code]; !known {
		code = OAuthErrCallback
	}
	provider := r.URL.Query().Get("provider")

	app.renderPage(w, r, http.StatusOK, "oauth_error", map[string]interface{}{
		"Code":     code,
		"Message":  oauthErrorMessage(code),
		"RetryURL": oauthStartURL(provider),
	})
}

func (app *App) handleOAuthSuccess(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"Message": "Your account is connected."}
	if sessionData, err := app.loadSession(r); err == nil {
		provider := r.URL.Query().Get("provider")
		if provider != models.ProviderGoogleDrive {
			provider = models.ProviderGHL
		}
		if conn, err := app.GetConnection(r.Context(), sessionData.LocationID, provider); err == nil {
			data["AccountName"] = conn.AccountName
		}
	}
	app.renderPage(w, r, http.StatusOK, "oauth_success", data)
}

func (app *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := app.clearSession(w, r); err != nil {
		app.Logger.WithError(err).Warn("Failed to clear session during logout")
	}
	utils.RespondWithSuccess(w, nil, "Logged out")
}

// ConnectionStatus reports whether a provider is connected.
type ConnectionStatus struct {
	Connected  bool                    `json:"connected"`
	Configured bool                    `json:"configured"`
	Connection *models.OAuthConnection `json:"connection,omitempty"`
}

func (app *App) connectionStatus(w http.ResponseWriter, r *http.Request, provider string, cfg *oauth2.Config) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	status := ConnectionStatus{Configured: cfg != nil}
	conn, err := app.GetConnection(r.Context(), locationID, provider)
	switch {
	case err == nil:
		status.Connected = true
		status.Connection = conn
	case !errors.Is(err, ErrNotConnected):
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, status)
}

func (app *App) handleGHLStatus(w http.ResponseWriter, r *http.Request) {
	app.connectionStatus(w, r, models.ProviderGHL, app.GHLOAuth)
}

// handleGHLProducts lists the location's store products with its stored
// token.
func (app *App) handleGHLProducts(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	client, err := app.ghlClient(r.Context(), locationID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			utils.RespondWithError(w, http.StatusPreconditionFailed, "GoHighLevel is not connected for this location")
			return
		}
		app.Logger.WithError(err).WithField("location_id", locationID).Error("Failed to build GHL client")
		utils.RespondWithError(w, http.StatusBadGateway, "GoHighLevel connection unavailable")
		return
	}

	products, err := client.ListProducts(r.Context(), locationID, 100)
	if err != nil {
		app.Logger.WithError(err).WithField("location_id", locationID).Warn("Failed to list GHL products")
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load products from GoHighLevel")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}
