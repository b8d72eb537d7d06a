package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"directoryEngine/internal/gdrive"
	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"golang.org/x/oauth2"
)

// maxLogoUpload bounds the multipart body of a logo upload.
const maxLogoUpload = 10 << 20

func (app *App) handleDriveConnect(w http.ResponseWriter, r *http.Request) {
	if app.DriveOAuth == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Google Drive not configured")
		return
	}
	if _, ok := utils.RequireLocation(w, r); !ok {
		return
	}
	app.beginOAuth(w, r, models.ProviderGoogleDrive, app.DriveOAuth,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// handleDriveCallback stores the Drive token for the session's location.
func (app *App) handleDriveCallback(w http.ResponseWriter, r *http.Request) {
	if app.DriveOAuth == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Google Drive not configured")
		return
	}
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	code, errCode := app.finishOAuth(w, r, models.ProviderGoogleDrive)
	if errCode != "" {
		app.redirectOAuthError(w, r, models.ProviderGoogleDrive, errCode, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token, err := app.DriveOAuth.Exchange(ctx, code)
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGoogleDrive, OAuthErrTokenExchange, err)
		return
	}

	account, err := gdrive.UserInfo(ctx, app.DriveOAuth.Client(ctx, token))
	if err != nil {
		app.redirectOAuthError(w, r, models.ProviderGoogleDrive, OAuthErrUserInfo, err)
		return
	}

	conn := models.OAuthConnection{
		LocationID:  locationID,
		Provider:    models.ProviderGoogleDrive,
		AccountID:   account.ID,
		AccountName: account.Email,
		Scope:       strings.Join(gdrive.Scopes, " "),
		ConnectedAt: time.Now().UTC(),
	}
	if err := app.SaveConnection(ctx, conn, token); err != nil {
		app.redirectOAuthError(w, r, models.ProviderGoogleDrive, OAuthErrCallback, err)
		return
	}

	app.Logger.WithFields(map[string]interface{}{
		"location_id": locationID,
		"account":     account.Email,
	}).Info("Google Drive connected")

	http.Redirect(w, r, "/oauth/success?provider="+models.ProviderGoogleDrive, http.StatusSeeOther)
}

func (app *App) handleDriveStatus(w http.ResponseWriter, r *http.Request) {
	app.connectionStatus(w, r, models.ProviderGoogleDrive, app.DriveOAuth)
}

func (app *App) handleDriveDisconnect(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	if err := app.DeleteConnection(r.Context(), locationID, models.ProviderGoogleDrive); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Google Drive disconnected")
}

// handleDriveUpload resizes an uploaded logo and stores it in the
// location's Drive so it can be used as a listing or collection image.
func (app *App) handleDriveUpload(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUpload)
	if err := r.ParseMultipartForm(maxLogoUpload); err != nil {
		utils.BadRequestError(w, "Upload must be a multipart form under 10MB")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		utils.ValidationError(w, "logo file is required")
		return
	}
	defer file.Close()

	data, err := gdrive.ResizeLogo(file, app.Config.LogoMaxWidth)
	if err != nil {
		utils.ValidationError(w, "logo must be a PNG, JPEG or GIF image")
		return
	}

	httpClient, err := app.authorizedClient(r.Context(), app.DriveOAuth, locationID, models.ProviderGoogleDrive)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			utils.RespondWithError(w, http.StatusPreconditionFailed, "Google Drive is not connected for this location")
			return
		}
		app.Logger.WithError(err).WithField("location_id", locationID).Error("Failed to build Drive client")
		utils.RespondWithError(w, http.StatusBadGateway, "Google Drive connection unavailable")
		return
	}

	name := logoFileName(header.Filename)
	uploaded, err := gdrive.Upload(r.Context(), httpClient, name, "image/png", data)
	if err != nil {
		app.Logger.WithError(err).WithField("location_id", locationID).Warn("Drive upload failed")
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to upload to Google Drive")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, uploaded)
}

// logoFileName replaces the extension with .png since logos are
// re-encoded.
func logoFileName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base = slugify(base); base == "" {
		base = "logo"
	}
	return fmt.Sprintf("%s-%d.png", base, time.Now().Unix())
}
