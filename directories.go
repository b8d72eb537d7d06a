package main

import (
	"fmt"
	"net/http"
	"net/url"

	"directoryEngine/internal/utils"
	"directoryEngine/internal/wizard"
	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"
)

// EmbedCodeResponse is the code to paste into GHL for one directory.
type EmbedCodeResponse struct {
	DirectoryID   string `json:"directoryId"`
	HeaderCode    string `json:"headerCode"`
	FooterCode    string `json:"footerCode"`
	IsValid       bool   `json:"isValid"`
	HeaderSnippet string `json:"headerSnippet"`
	FooterSnippet string `json:"footerSnippet"`
	FormURL       string `json:"formUrl"`
}

func (app *App) handleListDirectories(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	dirs, err := app.ListDirectories(r.Context(), locationID)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dirs)
}

func (app *App) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	var req wizard.CreateDirectoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	dir, err := app.CreateDirectory(r.Context(), locationID, req)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dir)
}

func (app *App) handleGetDirectory(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	dir, err := app.GetDirectory(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dir)
}

func (app *App) handleUpdateDirectory(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}

	var upd DirectoryUpdate
	if err := utils.DecodeJSON(r, &upd); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	dir, err := app.UpdateDirectory(r.Context(), locationID, mux.Vars(r)["id"], upd)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dir)
}

func (app *App) handleDeleteDirectory(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	if err := app.DeleteDirectory(r.Context(), locationID, mux.Vars(r)["id"]); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Directory deleted")
}

// publicFormURL is the hosted submission form of a directory.
func (app *App) publicFormURL(locationID, directoryName string) string {
	return fmt.Sprintf("%s/form/%s/%s", app.Config.BaseURL,
		url.PathEscape(locationID), url.PathEscape(directoryName))
}

func (app *App) handleEmbedCode(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	dir, err := app.GetDirectory(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	code := app.embedCode(r.Context(), dir)
	header, footer := code.Snippet()
	utils.RespondWithJSON(w, http.StatusOK, EmbedCodeResponse{
		DirectoryID:   dir.ID,
		HeaderCode:    code.HeaderCode,
		FooterCode:    code.FooterCode,
		IsValid:       code.IsValid,
		HeaderSnippet: header,
		FooterSnippet: footer,
		FormURL:       app.publicFormURL(locationID, dir.DirectoryName),
	})
}

// handleDirectoryQR renders the public form URL as a PNG QR code.
func (app *App) handleDirectoryQR(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	dir, err := app.GetDirectory(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	png, err := qrcode.Encode(app.publicFormURL(locationID, dir.DirectoryName), qrcode.Medium, 256)
	if err != nil {
		app.Logger.WithError(err).WithField("directory_id", dir.ID).Error("Failed to encode QR code")
		utils.InternalServerError(w, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", dir.DirectoryName+"-form.png"))
	w.Write(png)
}
