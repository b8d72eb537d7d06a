package main

import (
	"net/http"

	"directoryEngine/internal/models"
	"directoryEngine/internal/utils"
	"github.com/gorilla/mux"
)

func (app *App) handleListCollections(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	collections, err := app.ListCollections(r.Context(), locationID)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, collections)
}

func (app *App) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var in CollectionInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	c, err := app.CreateCollection(r.Context(), locationID, in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

func (app *App) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	c, err := app.GetCollection(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (app *App) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var in CollectionInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	c, err := app.UpdateCollection(r.Context(), locationID, mux.Vars(r)["id"], in)
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (app *App) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	if err := app.DeleteCollection(r.Context(), locationID, mux.Vars(r)["id"]); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Collection deleted")
}

func (app *App) handleListCollectionItems(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	items, err := app.ListCollectionItems(r.Context(), locationID, mux.Vars(r)["id"])
	if err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func (app *App) handleAddCollectionItem(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	var item models.CollectionItem
	if err := utils.DecodeJSON(r, &item); err != nil {
		utils.BadRequestError(w, err.Error())
		return
	}
	item.CollectionID = mux.Vars(r)["id"]
	if item.ListingID == "" {
		utils.ValidationError(w, "listingId is required")
		return
	}
	if err := app.AddCollectionItem(r.Context(), locationID, item); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

func (app *App) handleRemoveCollectionItem(w http.ResponseWriter, r *http.Request) {
	locationID, ok := utils.RequireLocation(w, r)
	if !ok {
		return
	}
	listingID := r.URL.Query().Get("listingId")
	if listingID == "" {
		utils.ValidationError(w, "listingId is required")
		return
	}
	if err := app.RemoveCollectionItem(r.Context(), locationID, mux.Vars(r)["id"], listingID); err != nil {
		app.respondWithStoreError(w, r, err)
		return
	}
	utils.RespondWithSuccess(w, nil, "Listing removed from collection")
}
