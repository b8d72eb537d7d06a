package main

import (
	"net/http"

	"directoryEngine/internal/utils"
	"github.com/gorilla/mux"
	"github.com/justinas/nosurf"
	"github.com/rs/cors"
)

// Routes builds the HTTP handler for the whole service.
func (app *App) Routes() http.Handler {
	r := mux.NewRouter()

	r.Use(app.RecoveryMiddleware)
	r.Use(app.LoggingMiddleware)
	r.Use(SecurityHeadersMiddleware)

	r.HandleFunc("/healthz", app.handleHealth).Methods("GET")

	// Marketplace install and OAuth result pages
	r.HandleFunc("/api/oauth/ghl/start", app.handleGHLStart).Methods("GET")
	r.HandleFunc("/api/oauth/ghl/callback", app.handleGHLCallback).Methods("GET")
	r.HandleFunc("/oauth/error", app.handleOAuthError).Methods("GET")
	r.HandleFunc("/oauth/success", app.handleOAuthSuccess).Methods("GET")

	// Stateless generators
	r.HandleFunc("/api/generate/popup", app.handleGeneratePopup).Methods("POST")
	r.HandleFunc("/api/generate/embedded", app.handleGenerateEmbedded).Methods("POST")
	r.HandleFunc("/api/generate/directory", app.handleGenerateDirectory).Methods("POST")
	r.HandleFunc("/api/parse-embed", app.handleParseEmbed).Methods("POST")
	r.HandleFunc("/api/metadata-fields", app.handleMetadataCatalog).Methods("GET")

	// Hosted submission form, embeddable from any site
	publicCORS := cors.New(cors.Options{
		AllowedOrigins: app.Config.AllowedOrigins(),
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})
	r.HandleFunc("/form/{location}/{name}", app.handlePublicForm).Methods("GET")
	r.Handle("/form/{location}/{name}/submit",
		publicCORS.Handler(app.RateLimitMiddleware(app.FormLimiter)(http.HandlerFunc(app.handleFormSubmit)))).
		Methods("POST", "OPTIONS")

	if !app.Config.IsProduction() {
		r.HandleFunc("/api/dev/session", app.handleDevSession).Methods("POST")
		r.HandleFunc("/api/dev/preview", app.handleDevPreview).Methods("GET", "POST")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(app.AuthMiddleware)
	api.Use(app.CSRFMiddleware)

	api.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": nosurf.Token(r)})
	}).Methods("GET")
	api.HandleFunc("/logout", app.handleLogout).Methods("POST")

	api.HandleFunc("/directories", app.handleListDirectories).Methods("GET")
	api.HandleFunc("/directories", app.handleCreateDirectory).Methods("POST")
	api.HandleFunc("/directories/{id}", app.handleGetDirectory).Methods("GET")
	api.HandleFunc("/directories/{id}", app.handleUpdateDirectory).Methods("PUT")
	api.HandleFunc("/directories/{id}", app.handleDeleteDirectory).Methods("DELETE")
	api.HandleFunc("/directories/{id}/embed-code", app.handleEmbedCode).Methods("GET")
	api.HandleFunc("/directories/{id}/qr.png", app.handleDirectoryQR).Methods("GET")

	api.HandleFunc("/collections", app.handleListCollections).Methods("GET")
	api.HandleFunc("/collections", app.handleCreateCollection).Methods("POST")
	api.HandleFunc("/collections/{id}", app.handleGetCollection).Methods("GET")
	api.HandleFunc("/collections/{id}", app.handleUpdateCollection).Methods("PUT")
	api.HandleFunc("/collections/{id}", app.handleDeleteCollection).Methods("DELETE")
	api.HandleFunc("/collections/{id}/items", app.handleListCollectionItems).Methods("GET")
	api.HandleFunc("/collections/{id}/items", app.handleAddCollectionItem).Methods("POST")
	api.HandleFunc("/collections/{id}/items", app.handleRemoveCollectionItem).Methods("DELETE")

	api.HandleFunc("/listings", app.handleListListings).Methods("GET")
	api.HandleFunc("/listings", app.handleCreateListing).Methods("POST")
	api.HandleFunc("/listings/{id}", app.handleGetListing).Methods("GET")
	api.HandleFunc("/listings/{id}", app.handleUpdateListing).Methods("PUT")
	api.HandleFunc("/listings/{id}", app.handleDeleteListing).Methods("DELETE")
	api.HandleFunc("/listings/{id}/sync", app.handleSyncListing).Methods("POST")
	api.HandleFunc("/listing-addons", app.handleListAddons).Methods("GET")
	api.HandleFunc("/listing-addons", app.handleCreateAddon).Methods("POST")
	api.HandleFunc("/listing-addons/{id}", app.handleDeleteAddon).Methods("DELETE")

	api.HandleFunc("/submissions", app.handleListSubmissions).Methods("GET")
	api.HandleFunc("/submissions/{id}/review", app.handleReviewSubmission).Methods("POST")

	api.HandleFunc("/wizard", app.handleCreateWizard).Methods("POST")
	api.HandleFunc("/wizard/{id}", app.handleGetWizard).Methods("GET")
	api.HandleFunc("/wizard/{id}", app.handleWizardPatch).Methods("PATCH")
	api.HandleFunc("/wizard/{id}", app.handleDeleteWizard).Methods("DELETE")
	api.HandleFunc("/wizard/{id}/next", app.handleWizardNext).Methods("POST")
	api.HandleFunc("/wizard/{id}/prev", app.handleWizardPrev).Methods("POST")
	api.HandleFunc("/wizard/{id}/goto/{index:[0-9]+}", app.handleWizardGoTo).Methods("POST")
	api.HandleFunc("/wizard/{id}/submit", app.handleWizardSubmit).Methods("POST")
	api.HandleFunc("/wizard/{id}/live", app.handleWizardLive).Methods("GET")

	api.HandleFunc("/oauth/ghl/status", app.handleGHLStatus).Methods("GET")
	api.HandleFunc("/ghl/products", app.handleGHLProducts).Methods("GET")

	api.HandleFunc("/google-drive/connect", app.handleDriveConnect).Methods("GET")
	api.HandleFunc("/google-drive/callback", app.handleDriveCallback).Methods("GET")
	api.HandleFunc("/google-drive/status", app.handleDriveStatus).Methods("GET")
	api.HandleFunc("/google-drive", app.handleDriveDisconnect).Methods("DELETE")
	api.HandleFunc("/google-drive/upload", app.handleDriveUpload).Methods("POST")

	return r
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.DB.PingContext(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
