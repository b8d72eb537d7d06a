package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"directoryEngine/internal/ghl"
	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"github.com/gorilla/mux"
)

func (app *App) handleListListings(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	listings, err := app.ListListings(r.Context(), locationID, r.URL.Query().Get("directoryName"))
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, listings)
}

func (app *App) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var in ListingInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	l, err := app.CreateListing(r.Context(), locationID, in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, l)
}

func (app *App) handleGetListing(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	l, err := app.GetListing(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (app *App) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var in ListingInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	l, err := app.UpdateListing(r.Context(), locationID, mux.Vars(r)["id"], in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (app *App) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	if err := app.DeleteListing(r.Context(), locationID, mux.Vars(r)["id"]); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Listing deleted")
}

// ghlClient returns an API client authorized as the location.
func (app *App) ghlClient(ctx context.Context, locationID string) (*ghl.Client, error) {
	httpClient, err := app.authorizedClient(ctx, app.GHLOAuth, locationID, models.ProviderGHL)
	if err != nil {
		return nil, err
	}
	return ghl.NewClient(httpClient, app.Config.GHLAPIBase), nil
}

// syncListing pushes a listing to GHL as a product with one price. An
// existing product is updated in place.
func (app *App) syncListing(ctx context.Context, client *ghl.Client, l *models.Listing) (string, error) {
	product := ghl.Product{
		LocationID:       l.LocationID,
		Name:             l.Title,
		Description:      l.Description,
		ProductType:      "DIGITAL",
		Image:            l.ImageURL,
		AvailableInStore: l.Active,
		Slug:             l.Slug,
	}

	if l.GHLProductID != "" {
		if _, err := client.UpdateProduct(ctx, l.GHLProductID, product); err != nil {
			return l.GHLProductID, fmt.Errorf("failed to update product: %w", err)
		}
		return l.GHLProductID, nil
	}

	created, err := client.CreateProduct(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	_, err = client.CreatePrice(ctx, created.ID, ghl.Price{
		Name:       l.Title,
		Type:       "one_time",
		Currency:   "USD",
		Amount:     l.Price,
		LocationID: l.LocationID,
	})
	if err != nil {
		return created.ID, fmt.Errorf("failed to create price: %w", err)
	}
	return created.ID, nil
}

func (app *App) handleSyncListing(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	l, err := app.GetListing(ctx, locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	client, err := app.ghlClient(ctx, locationID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			utils.RespondWithError(w, http.StatusPreconditionFailed, "GoHighLevel is not connected for this location")
			return
		}
		app.Logger.WithError(err).WithField("location_id", locationID).Error("Failed to build GHL client")
		utils.RespondWithError(w, http.StatusBadGateway, "GoHighLevel connection unavailable")
		return
	}

	productID, syncErr := app.syncListing(ctx, client, l)
	status := models.SyncSynced
	if syncErr != nil {
		status = models.SyncFailed
	}
	if err := app.SetListingSync(ctx, locationID, l.ID, productID, status); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}

	if syncErr != nil {
		app.Logger.WithError(syncErr).WithFields(map[string]interface{}{
			"location_id": locationID,
			"listing_id":  l.ID,
		}).Warn("Listing sync failed")
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to sync listing to GoHighLevel")
		return
	}

	l.GHLProductID = productID
	l.SyncStatus = status
	utils.RespondWithJSON(w, http.StatusOK, l)
}

func (app *App) handleListAddons(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		utils.ValidationError(w, "listingId is required")
		return
	}
	addons, err := app.ListListingAddons(r.Context(), locationID, listingID)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, addons)
}

func (app *App) handleCreateAddon(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var in AddonInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	addon, err := app.CreateListingAddon(r.Context(), locationID, in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, addon)
}

func (app *App) handleDeleteAddon(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	if err := app.DeleteListingAddon(r.Context(), locationID, mux.Vars(r)["id"]); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Addon deleted")
}
