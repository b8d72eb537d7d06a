package main

import (
	"net/http"
	"strings"

	"directoryEngine/internal/codegen"
	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PublicFormPage is the data behind the form template.
type PublicFormPage struct {
	Directory      *models.Directory
	Fields         []codegen.MetadataField
	ReferenceField string
	Reference      string
	SubmitURL      string
}

// PublicSubmission is the body posted by the public submission form.
type PublicSubmission struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	Metadata    map[string]string `json:"metadata"`
}

// loadPublicDirectory resolves the directory named in the route and only
// returns active ones.
func (app *App) loadPublicDirectory(w http.ResponseWriter, r *http.Request) (*models.Directory, bool) {
	vars := mux.Vars(r)
	dir, err := app.GetDirectoryByName(r.Context(), vars["location"], vars["name"])
	if err != nil {
		if IsNotFound(err) {
			utils.NotFoundError(w, "Directory")
			return nil, false
		}
		app.respondWithStoreError(w, r, err)
		return nil, false
	}
	if !dir.Active {
		utils.NotFoundError(w, "Directory")
		return nil, false
	}
	return dir, true
}

func (app *App) handlePublicForm(w http.ResponseWriter, r *http.Request) {
	dir, ok := app.loadPublicDirectory(w, r)
	if !ok {
		return
	}

	page := PublicFormPage{
		Directory:      dir,
		ReferenceField: strings.ToLower(dir.Config.CustomFieldName),
		SubmitURL:      strings.TrimPrefix(app.publicFormURL(dir.LocationID, dir.DirectoryName), app.Config.BaseURL) + "/submit",
	}
	if dir.Config.ShowMetadata {
		page.Fields = app.Generator.ResolveFields(dir.Config.MetadataFields)
	}
	if page.ReferenceField != "" {
		page.Reference = r.URL.Query().Get(page.ReferenceField)
	}
	app.renderPage(w, r, http.StatusOK, "form", page)
}

// handleFormSubmit stores a public submission as an inactive listing
// waiting for review.
func (app *App) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	dir, ok := app.loadPublicDirectory(w, r)
	if !ok {
		return
	}

	var sub PublicSubmission
	if err := utils.DecodeJSON(r, &sub); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}

	allowed := map[string]bool{}
	for _, id := range dir.Config.MetadataFields {
		allowed[strings.ToLower(id)] = true
	}
	if ref := strings.ToLower(dir.Config.CustomFieldName); ref != "" {
		allowed[ref] = true
	}

	v := NewValidator()
	v.ValidateRequired(sub.Title, "title").ValidateNoXSS(sub.Title, "title").ValidateSafeText(sub.Title, "title")
	v.ValidateNoXSS(sub.Description, "description").ValidateSafeText(sub.Description, "description")
	metadata := make(map[string]string, len(sub.Metadata))
	for key, value := range sub.Metadata {
		key = strings.ToLower(strings.TrimSpace(key))
		if !allowed[key] {
			v.AddError("metadata field " + key + " is not accepted by this directory")
			continue
		}
		v.ValidateNoXSS(value, key).ValidateSafeText(value, key)
		metadata[key] = value
	}
	if v.HasErrors() {
		utils.ValidationError(w, v.ErrorString())
		return
	}

	// Submissions share a title often enough that the slug needs a suffix.
	title := strings.TrimSpace(sub.Title)
	slug := slugify(title) + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	inactive := false
	in := ListingInput{
		Title:         &title,
		Slug:          &slug,
		DirectoryName: &dir.DirectoryName,
		Metadata:      metadata,
		Active:        &inactive,
	}
	if dir.Config.ShowDescription {
		in.Description = &sub.Description
	}
	if dir.Config.ShowPrice {
		in.Price = &sub.Price
	}
	if sub.ImageURL != "" {
		in.ImageURL = &sub.ImageURL
	}

	listing, err := app.CreateListing(r.Context(), dir.LocationID, in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	app.Logger.WithFields(map[string]interface{}{
		"location_id": dir.LocationID,
		"directory":   dir.DirectoryName,
		"listing_id":  listing.ID,
		"ip":          getRealIP(r),
	}).Info("Public listing submitted")

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"id":     listing.ID,
		"status": string(listing.SyncStatus),
	})
}
