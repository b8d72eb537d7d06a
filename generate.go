package main

import (
	"net/http"
	"strings"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/embed"
	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
)

// PopupRequest is the body of /api/generate/popup.
type PopupRequest struct {
	ButtonText             string `json:"buttonText"`
	ButtonColor            string `json:"buttonColor"`
	ButtonTextColor        string `json:"buttonTextColor"`
	ButtonRadius           int    `json:"buttonRadius"`
	CustomFieldName        string `json:"customFieldName"`
	FormEmbedURL           string `json:"formEmbedUrl"`
	ExtraSpacing           bool   `json:"extraSpacing"`
	EnableQuantitySelector bool   `json:"enableQuantitySelector"`
	EnableBuyNow           bool   `json:"enableBuyNow"`
}

// EmbeddedRequest is the body of /api/generate/embedded.
type EmbeddedRequest struct {
	CustomFieldName string `json:"customFieldName"`
	FormEmbedURL    string `json:"formEmbedUrl"`
	BorderRadius    int    `json:"borderRadius"`
	Animation       string `json:"animation"`
	ExtraSpacing    bool   `json:"extraSpacing"`
	TargetSelector  string `json:"targetSelector"`
}

// DirectoryCodeRequest is the body of /api/generate/directory. Missing
// halves fall back to the defaults.
type DirectoryCodeRequest struct {
	Config  *models.DirectoryConfig `json:"config"`
	Styling *models.Styling         `json:"styling"`
}

// ParseEmbedRequest is the body of /api/parse-embed.
type ParseEmbedRequest struct {
	Embed string `json:"embed"`
}

func (app *App) handleGeneratePopup(w http.ResponseWriter, r *http.Request) {
	var req PopupRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	code := codegen.GenerateActionButtonPopup(codegen.PopupOptions{
		Button: codegen.ButtonOptions{
			Text:      req.ButtonText,
			Color:     req.ButtonColor,
			TextColor: req.ButtonTextColor,
			Radius:    req.ButtonRadius,
		},
		CustomFieldName:        req.CustomFieldName,
		FormURL:                req.FormEmbedURL,
		ExtraSpacing:           req.ExtraSpacing,
		EnableQuantitySelector: req.EnableQuantitySelector,
		EnableBuyNow:           req.EnableBuyNow,
	})
	utils.RespondWithJSON(w, http.StatusOK, code)
}

func (app *App) handleGenerateEmbedded(w http.ResponseWriter, r *http.Request) {
	var req EmbeddedRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	code := codegen.GenerateEmbeddedForm(codegen.EmbeddedFormOptions{
		CustomFieldName: req.CustomFieldName,
		FormURL:         req.FormEmbedURL,
		Radius:          req.BorderRadius,
		Animation:       req.Animation,
		ExtraSpacing:    req.ExtraSpacing,
		TargetSelector:  req.TargetSelector,
	})
	utils.RespondWithJSON(w, http.StatusOK, code)
}

func (app *App) handleGenerateDirectory(w http.ResponseWriter, r *http.Request) {
	var req DirectoryCodeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	cfg := models.DefaultDirectoryConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	style := models.DefaultStyling()
	if req.Styling != nil {
		style = *req.Styling
	}
	utils.RespondWithJSON(w, http.StatusOK, app.Generator.Generate(cfg, style))
}

// handleParseEmbed reports what the generators would read from a pasted
// form embed. A blank body yields 422 since nothing can be parsed.
func (app *App) handleParseEmbed(w http.ResponseWriter, r *http.Request) {
	var req ParseEmbedRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	parsed := embed.Parse(req.Embed)
	if parsed == nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Nothing to parse")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, parsed)
}

// handleMetadataCatalog lists the metadata fields the bar can render.
func (app *App) handleMetadataCatalog(w http.ResponseWriter, r *http.Request) {
	fields := app.Generator.Catalog()
	if ids := r.URL.Query().Get("ids"); ids != "" {
		fields = app.Generator.ResolveFields(strings.Split(ids, ","))
	}
	utils.RespondWithJSON(w, http.StatusOK, fields)
}
