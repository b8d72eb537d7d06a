package main

import (
	"html/template"
	"net/http"
	"strings"

	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
)

// DevSessionRequest binds a browser to a location without going through
// the marketplace install.
type DevSessionRequest struct {
	LocationID string `json:"locationId"`
	UserID     string `json:"userId"`
}

// PreviewPage is the data behind the preview template.
type PreviewPage struct {
	Title  string
	Header template.HTML
	Footer template.HTML
	Valid  bool
}

func (app *App) handleDevSession(w http.ResponseWriter, r *http.Request) {
	var req DevSessionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	req.LocationID = strings.TrimSpace(req.LocationID)
	if req.LocationID == "" {
		utils.RespondWithFieldError(w, "locationId", "locationId is required")
		return
	}
	if req.UserID == "" {
		req.UserID = "dev"
	}

	if err := app.saveSession(w, r, models.SessionData{LocationID: req.LocationID, UserID: req.UserID}); err != nil {
		app.Logger.WithError(err).Error("Failed to save dev session")
		utils.InternalServerError(w, "Failed to save session")
		return
	}
	app.Logger.WithField("location_id", req.LocationID).Warn("Development session issued")
	utils.RespondWithSuccess(w, map[string]string{"locationId": req.LocationID}, "Session created")
}

// handleDevPreview renders generated code around a mock listing page. GET
// uses the default configuration, POST takes the same body as
// /api/generate/directory.
func (app *App) handleDevPreview(w http.ResponseWriter, r *http.Request) {
	cfg := models.DefaultDirectoryConfig()
	style := models.DefaultStyling()
	if r.Method == http.MethodPost {
		var req DirectoryCodeRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.BadRequestError(w, err.Error())
			return
		}
		if req.Config != nil {
			cfg = *req.Config
		}
		if req.Styling != nil {
			style = *req.Styling
		}
	}

	code := app.Generator.Generate(cfg, style)
	header, footer := code.Snippet()
	app.renderPage(w, r, http.StatusOK, "preview", PreviewPage{
		Title:  "Sample listing",
		Header: template.HTML(header),
		Footer: template.HTML(footer),
		Valid:  code.IsValid,
	})
}
