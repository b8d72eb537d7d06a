package main

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"directoryEngine/internal/models"
	"github.com/google/uuid"
)

// CollectionInput is the body of collection create and update requests.
type CollectionInput struct {
	Name          *string `json:"name,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	DirectoryName *string `json:"directoryName,omitempty"`
	Description   *string `json:"description,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

func (in CollectionInput) apply(c *models.Collection) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		c.Slug = slugify(*in.Slug)
	}
	if in.DirectoryName != nil {
		c.DirectoryName = strings.TrimSpace(*in.DirectoryName)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
}

const collectionColumns = `id, location_id, directory_name, name, slug, description, image_url,
	ghl_collection_id, active, sync_status, created_at, updated_at`

func scanCollection(row rowScanner) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(&c.ID, &c.LocationID, &c.DirectoryName, &c.Name, &c.Slug, &c.Description,
		&c.ImageURL, &c.GHLCollectionID, &c.Active, &c.SyncStatus, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func validateCollection(c *models.Collection) error {
	v := NewValidator()
	v.ValidateRequired(c.Name, "name").ValidateLength(c.Name, "name", 1, 120)
	v.ValidateRequired(c.Slug, "slug")
	v.ValidateURL(c.ImageURL, "imageUrl", "http", "https")
	if v.HasErrors() {
		return WrapDatabaseError(ErrTypeValidation, v.ErrorString(), nil)
	}
	return nil
}

// CreateCollection adds a collection. The slug defaults to the name.
func (app *App) CreateCollection(ctx context.Context, locationID string, in CollectionInput) (*models.Collection, error) {
	now := time.Now().UTC()
	c := &models.Collection{
		ID:         uuid.NewString(),
		LocationID: locationID,
		Active:     true,
		SyncStatus: models.SyncPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.apply(c)
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	}
	if err := validateCollection(c); err != nil {
		return nil, err
	}

	_, err := app.DB.ExecContext(ctx, `INSERT INTO collections (`+collectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LocationID, c.DirectoryName, c.Name, c.Slug, c.Description, c.ImageURL,
		c.GHLCollectionID, boolToInt(c.Active), c.SyncStatus, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, wrapWriteError("collection", err)
	}
	return c, nil
}

// GetCollection retrieves a collection by ID within a location
func (app *App) GetCollection(ctx context.Context, locationID, id string) (*models.Collection, error) {
	c, err := scanCollection(app.DB.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ? AND location_id = ?`, id, locationID))
	if err == sql.ErrNoRows {
		return nil, notFound("collection")
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query collection", err)
	}
	return c, nil
}

// ListCollections returns the collections of a location by name.
func (app *App) ListCollections(ctx context.Context, locationID string) ([]models.Collection, error) {
	rows, err := app.DB.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE location_id = ? ORDER BY name`, locationID)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list collections", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan collection", err)
		}
		collections = append(collections, *c)
	}
	return collections, rows.Err()
}

// UpdateCollection applies a partial update.
func (app *App) UpdateCollection(ctx context.Context, locationID, id string, in CollectionInput) (*models.Collection, error) {
	var updated *models.Collection
	err := app.WithTransaction(ctx, func(tx *sql.Tx) error {
		c, err := scanCollection(tx.QueryRowContext(ctx,
			`SELECT `+collectionColumns+` FROM collections WHERE id = ? AND location_id = ?`, id, locationID))
		if err == sql.ErrNoRows {
			return notFound("collection")
		}
		if err != nil {
			return WrapDatabaseError(ErrTypeConnection, "failed to query collection", err)
		}

		in.apply(c)
		if err := validateCollection(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx, `
			UPDATE collections SET directory_name = ?, name = ?, slug = ?, description = ?, image_url = ?,
				active = ?, updated_at = ?
			WHERE id = ? AND location_id = ?
		`, c.DirectoryName, c.Name, c.Slug, c.Description, c.ImageURL, boolToInt(c.Active), c.UpdatedAt, id, locationID)
		if err != nil {
			return wrapWriteError("collection", err)
		}
		updated = c
		return nil
	})
	return updated, err
}

// DeleteCollection removes a collection and its item links.
func (app *App) DeleteCollection(ctx context.Context, locationID, id string) error {
	res, err := app.DB.ExecContext(ctx, `DELETE FROM collections WHERE id = ? AND location_id = ?`, id, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to delete collection", err)
	}
	return requireAffected(res, "collection")
}

// CollectionItemView is a listing as it appears inside a collection.
type CollectionItemView struct {
	models.CollectionItem
	Listing models.Listing `json:"listing"`
}

// ListCollectionItems returns the listings of a collection in sort order.
func (app *App) ListCollectionItems(ctx context.Context, locationID, collectionID string) ([]CollectionItemView, error) {
	if _, err := app.GetCollection(ctx, locationID, collectionID); err != nil {
		return nil, err
	}

	rows, err := app.DB.QueryContext(ctx, `
		SELECT ci.collection_id, ci.sort_order, `+prefixColumns("l", listingColumns)+`
		FROM collection_items ci
		JOIN listings l ON l.id = ci.listing_id
		WHERE ci.collection_id = ?
		ORDER BY ci.sort_order, l.title
	`, collectionID)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list collection items", err)
	}
	defer rows.Close()

	items := []CollectionItemView{}
	for rows.Next() {
		var item CollectionItemView
		var metadataJSON string
		err := rows.Scan(append([]interface{}{&item.CollectionID, &item.SortOrder},
			listingScanTargets(&item.Listing, &metadataJSON)...)...)
		if err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan collection item", err)
		}
		if err := decodeMetadata(&item.Listing, metadataJSON); err != nil {
			return nil, err
		}
		item.ListingID = item.Listing.ID
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddCollectionItem links a listing of the same location into a
// collection. Adding an existing link updates its sort order.
func (app *App) AddCollectionItem(ctx context.Context, locationID string, item models.CollectionItem) error {
	return app.WithTransaction(ctx, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM collections c, listings l
			WHERE c.id = ? AND c.location_id = ? AND l.id = ? AND l.location_id = ?
		`, item.CollectionID, locationID, item.ListingID, locationID).Scan(&found)
		if err != nil {
			return WrapDatabaseError(ErrTypeConnection, "failed to check collection item", err)
		}
		if found == 0 {
			return notFound("collection or listing")
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collection_items (collection_id, listing_id, sort_order) VALUES (?, ?, ?)
			ON CONFLICT (collection_id, listing_id) DO UPDATE SET sort_order = excluded.sort_order
		`, item.CollectionID, item.ListingID, item.SortOrder)
		if err != nil {
			return wrapWriteError("collection item", err)
		}
		return nil
	})
}

// RemoveCollectionItem unlinks a listing from a collection.
func (app *App) RemoveCollectionItem(ctx context.Context, locationID, collectionID, listingID string) error {
	res, err := app.DB.ExecContext(ctx, `
		DELETE FROM collection_items
		WHERE collection_id = ? AND listing_id = ?
			AND collection_id IN (SELECT id FROM collections WHERE location_id = ?)
	`, collectionID, listingID, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to remove collection item", err)
	}
	return requireAffected(res, "collection item")
}
