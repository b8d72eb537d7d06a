package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"directoryEngine/internal/models"
	"github.com/google/uuid"
)

// ListingInput is the body of listing create and update requests.
type ListingInput struct {
	Title         *string           `json:"title,omitempty"`
	Slug          *string           `json:"slug,omitempty"`
	DirectoryName *string           `json:"directoryName,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Price         *float64          `json:"price,omitempty"`
	ImageURL      *string           `json:"imageUrl,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Active        *bool             `json:"active,omitempty"`
}

func (in ListingInput) apply(l *models.Listing) {
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		l.Slug = slugify(*in.Slug)
	}
	if in.DirectoryName != nil {
		l.DirectoryName = strings.TrimSpace(*in.DirectoryName)
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.ImageURL != nil {
		l.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Metadata != nil {
		l.Metadata = make(map[string]string, len(in.Metadata))
		for k, v := range in.Metadata {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				l.Metadata[k] = strings.TrimSpace(v)
			}
		}
	}
	if in.Active != nil {
		l.Active = *in.Active
	}
}

const listingColumns = `id, location_id, directory_name, title, slug, description, price, image_url,
	metadata, ghl_product_id, active, sync_status, created_at, updated_at`

// prefixColumns qualifies every column in cols with alias.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func listingScanTargets(l *models.Listing, metadataJSON *string) []interface{} {
	return []interface{}{&l.ID, &l.LocationID, &l.DirectoryName, &l.Title, &l.Slug, &l.Description,
		&l.Price, &l.ImageURL, metadataJSON, &l.GHLProductID, &l.Active, &l.SyncStatus,
		&l.CreatedAt, &l.UpdatedAt}
}

func decodeMetadata(l *models.Listing, metadataJSON string) error {
	l.Metadata = map[string]string{}
	if metadataJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(metadataJSON), &l.Metadata); err != nil {
		return fmt.Errorf("corrupt metadata for listing %s: %w", l.ID, err)
	}
	return nil
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	var metadataJSON string
	if err := row.Scan(listingScanTargets(&l, &metadataJSON)...); err != nil {
		return nil, err
	}
	if err := decodeMetadata(&l, metadataJSON); err != nil {
		return nil, err
	}
	return &l, nil
}

func validateListing(l *models.Listing) error {
	v := NewValidator()
	v.ValidateRequired(l.Title, "title").ValidateLength(l.Title, "title", 1, 200)
	v.ValidateRequired(l.Slug, "slug")
	v.ValidateLength(l.Description, "description", 0, 10000)
	v.ValidateURL(l.ImageURL, "imageUrl", "http", "https")
	v.ValidateNonNegative(l.Price, "price")
	v.ValidateMetadata(l.Metadata, "metadata", 50)
	if v.HasErrors() {
		return WrapDatabaseError(ErrTypeValidation, v.ErrorString(), nil)
	}
	return nil
}

func encodeMetadata(l *models.Listing) (string, error) {
	if l.Metadata == nil {
		l.Metadata = map[string]string{}
	}
	data, err := json.Marshal(l.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(data), nil
}

// CreateListing adds a listing. The slug defaults to the title.
func (app *App) CreateListing(ctx context.Context, locationID string, in ListingInput) (*models.Listing, error) {
	now := time.Now().UTC()
	l := &models.Listing{
		ID:         uuid.NewString(),
		LocationID: locationID,
		Metadata:   map[string]string{},
		Active:     true,
		SyncStatus: models.SyncPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.apply(l)
	if l.Slug == "" {
		l.Slug = slugify(l.Title)
	}
	if err := validateListing(l); err != nil {
		return nil, err
	}
	return l, app.insertListing(ctx, l)
}

func (app *App) insertListing(ctx context.Context, l *models.Listing) error {
	metadataJSON, err := encodeMetadata(l)
	if err != nil {
		return err
	}
	_, err = app.DB.ExecContext(ctx, `INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.LocationID, l.DirectoryName, l.Title, l.Slug, l.Description, l.Price, l.ImageURL,
		metadataJSON, l.GHLProductID, boolToInt(l.Active), l.SyncStatus, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return wrapWriteError("listing", err)
	}
	return nil
}

// GetListing retrieves a listing by ID within a location
func (app *App) GetListing(ctx context.Context, locationID, id string) (*models.Listing, error) {
	l, err := scanListing(app.DB.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ? AND location_id = ?`, id, locationID))
	if err == sql.ErrNoRows {
		return nil, notFound("listing")
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query listing", err)
	}
	return l, nil
}

// ListListings returns the listings of a location, optionally limited to
// one directory.
func (app *App) ListListings(ctx context.Context, locationID, directoryName string) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE location_id = ?`
	args := []interface{}{locationID}
	if directoryName != "" {
		query += ` AND directory_name = ?`
		args = append(args, directoryName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := app.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list listings", err)
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan listing", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// UpdateListing applies a partial update. Content changes mark the listing
// for another sync.
func (app *App) UpdateListing(ctx context.Context, locationID, id string, in ListingInput) (*models.Listing, error) {
	var updated *models.Listing
	err := app.WithTransaction(ctx, func(tx *sql.Tx) error {
		l, err := scanListing(tx.QueryRowContext(ctx,
			`SELECT `+listingColumns+` FROM listings WHERE id = ? AND location_id = ?`, id, locationID))
		if err == sql.ErrNoRows {
			return notFound("listing")
		}
		if err != nil {
			return WrapDatabaseError(ErrTypeConnection, "failed to query listing", err)
		}

		in.apply(l)
		if err := validateListing(l); err != nil {
			return err
		}
		metadataJSON, err := encodeMetadata(l)
		if err != nil {
			return err
		}
		l.SyncStatus = models.SyncPending
		l.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx, `
			UPDATE listings SET directory_name = ?, title = ?, slug = ?, description = ?, price = ?,
				image_url = ?, metadata = ?, active = ?, sync_status = ?, updated_at = ?
			WHERE id = ? AND location_id = ?
		`, l.DirectoryName, l.Title, l.Slug, l.Description, l.Price, l.ImageURL, metadataJSON,
			boolToInt(l.Active), l.SyncStatus, l.UpdatedAt, id, locationID)
		if err != nil {
			return wrapWriteError("listing", err)
		}
		updated = l
		return nil
	})
	return updated, err
}

// DeleteListing removes a listing with its add-ons and collection links.
func (app *App) DeleteListing(ctx context.Context, locationID, id string) error {
	res, err := app.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = ? AND location_id = ?`, id, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to delete listing", err)
	}
	return requireAffected(res, "listing")
}

// SetListingSync records the outcome of pushing a listing to GHL.
func (app *App) SetListingSync(ctx context.Context, locationID, id, productID string, status models.SyncStatus) error {
	res, err := app.DB.ExecContext(ctx, `
		UPDATE listings SET ghl_product_id = ?, sync_status = ?, updated_at = ?
		WHERE id = ? AND location_id = ?
	`, productID, status, time.Now().UTC(), id, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to update listing sync", err)
	}
	return requireAffected(res, "listing")
}

// AddonInput is the body of an add-on create request.
type AddonInput struct {
	ListingID string `json:"listingId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SortOrder int    `json:"sortOrder"`
}

// CreateListingAddon attaches extra content to a listing of the location.
func (app *App) CreateListingAddon(ctx context.Context, locationID string, in AddonInput) (*models.ListingAddon, error) {
	v := NewValidator()
	v.ValidateRequired(in.ListingID, "listingId")
	if !models.IsValidAddonType(in.Type) {
		v.AddError(fmt.Sprintf("type must be one of %s, %s, %s",
			models.AddonExpandedDescription, models.AddonMetadata, models.AddonMap))
	}
	v.ValidateLength(in.Content, "content", 0, 20000)
	if v.HasErrors() {
		return nil, WrapDatabaseError(ErrTypeValidation, v.ErrorString(), nil)
	}

	if _, err := app.GetListing(ctx, locationID, in.ListingID); err != nil {
		return nil, err
	}

	addon := &models.ListingAddon{
		ID:        uuid.NewString(),
		ListingID: in.ListingID,
		Type:      in.Type,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		SortOrder: in.SortOrder,
		CreatedAt: time.Now().UTC(),
	}
	_, err := app.DB.ExecContext(ctx, `
		INSERT INTO listing_addons (id, listing_id, type, title, content, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, addon.ID, addon.ListingID, addon.Type, addon.Title, addon.Content, addon.SortOrder, addon.CreatedAt)
	if err != nil {
		return nil, wrapWriteError("listing addon", err)
	}
	return addon, nil
}

// ListListingAddons returns the add-ons of a listing in sort order.
func (app *App) ListListingAddons(ctx context.Context, locationID, listingID string) ([]models.ListingAddon, error) {
	rows, err := app.DB.QueryContext(ctx, `
		SELECT a.id, a.listing_id, a.type, a.title, a.content, a.sort_order, a.created_at
		FROM listing_addons a
		JOIN listings l ON l.id = a.listing_id
		WHERE a.listing_id = ? AND l.location_id = ?
		ORDER BY a.sort_order, a.created_at
	`, listingID, locationID)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list listing addons", err)
	}
	defer rows.Close()

	addons := []models.ListingAddon{}
	for rows.Next() {
		var a models.ListingAddon
		if err := rows.Scan(&a.ID, &a.ListingID, &a.Type, &a.Title, &a.Content, &a.SortOrder, &a.CreatedAt); err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan listing addon", err)
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

// DeleteListingAddon removes one add-on of a listing in the location.
func (app *App) DeleteListingAddon(ctx context.Context, locationID, id string) error {
	res, err := app.DB.ExecContext(ctx, `
		DELETE FROM listing_addons
		WHERE id = ? AND listing_id IN (SELECT id FROM listings WHERE location_id = ?)
	`, id, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to delete listing addon", err)
	}
	return requireAffected(res, "listing addon")
}
