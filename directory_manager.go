package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"directoryEngine/internal/models"
	"directoryEngine/internal/wizard"
	"github.com/google/uuid"
)

// DirectoryUpdate holds the optional fields of a PATCH.
type DirectoryUpdate struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Config      *models.DirectoryConfig `json:"config,omitempty"`
	Styling     *models.Styling         `json:"styling,omitempty"`
	Active      *bool                   `json:"active,omitempty"`
}

const directoryColumns = `id, location_id, directory_name, name, description, config, styling,
	header_code, footer_code, code_valid, active, sync_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDirectory(row rowScanner) (*models.Directory, error) {
	var dir models.Directory
	var configJSON, stylingJSON string
	err := row.Scan(&dir.ID, &dir.LocationID, &dir.DirectoryName, &dir.Name, &dir.Description,
		&configJSON, &stylingJSON, &dir.Code.HeaderCode, &dir.Code.FooterCode, &dir.Code.IsValid,
		&dir.Active, &dir.SyncStatus, &dir.CreatedAt, &dir.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(configJSON), &dir.Config); err != nil {
		return nil, fmt.Errorf("corrupt config for directory %s: %w", dir.ID, err)
	}
	if err := json.Unmarshal([]byte(stylingJSON), &dir.Styling); err != nil {
		return nil, fmt.Errorf("corrupt styling for directory %s: %w", dir.ID, err)
	}
	return &dir, nil
}

// CreateDirectory stores a finished wizard for a location. The code is
// regenerated from the submitted configuration.
func (app *App) CreateDirectory(ctx context.Context, locationID string, req wizard.CreateDirectoryRequest) (*models.Directory, error) {
	name := strings.TrimSpace(req.DirectoryName)
	if !isValidDirectoryName(name) {
		return nil, WrapDatabaseError(ErrTypeValidation, "directory name must be 1-64 letters, numbers, spaces, hyphens or underscores", nil)
	}
	if err := req.Config.Validate(); err != nil {
		return nil, WrapDatabaseError(ErrTypeValidation, err.Error(), nil)
	}

	now := time.Now().UTC()
	dir := &models.Directory{
		ID:            uuid.NewString(),
		LocationID:    locationID,
		DirectoryName: name,
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Config:        req.Config,
		Styling:       req.Styling,
		Code:          app.Generator.Generate(req.Config, req.Styling),
		Active:        true,
		SyncStatus:    models.SyncPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	configJSON, stylingJSON, err := encodeDirectorySettings(dir)
	if err != nil {
		return nil, err
	}

	_, err = app.DB.ExecContext(ctx, `
		INSERT INTO directories (`+directoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, dir.ID, dir.LocationID, dir.DirectoryName, dir.Name, dir.Description, configJSON, stylingJSON,
		dir.Code.HeaderCode, dir.Code.FooterCode, boolToInt(dir.Code.IsValid), boolToInt(dir.Active),
		dir.SyncStatus, dir.CreatedAt, dir.UpdatedAt)
	if err != nil {
		return nil, wrapWriteError("directory", err)
	}

	app.Logger.WithFields(map[string]interface{}{
		"location_id":    locationID,
		"directory_id":   dir.ID,
		"directory_name": dir.DirectoryName,
		"button_type":    dir.Config.Type,
	}).Info("Directory created")

	return dir, nil
}

func encodeDirectorySettings(dir *models.Directory) (string, string, error) {
	configJSON, err := json.Marshal(dir.Config)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode config: %w", err)
	}
	stylingJSON, err := json.Marshal(dir.Styling)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode styling: %w", err)
	}
	return string(configJSON), string(stylingJSON), nil
}

// GetDirectory retrieves a directory by ID within a location
func (app *App) GetDirectory(ctx context.Context, locationID, id string) (*models.Directory, error) {
	dir, err := scanDirectory(app.DB.QueryRowContext(ctx,
		`SELECT `+directoryColumns+` FROM directories WHERE id = ? AND location_id = ?`, id, locationID))
	if err == sql.ErrNoRows {
		return nil, notFound("directory")
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query directory", err)
	}
	return dir, nil
}

// GetDirectoryByName resolves the public form URL segment.
func (app *App) GetDirectoryByName(ctx context.Context, locationID, name string) (*models.Directory, error) {
	dir, err := scanDirectory(app.DB.QueryRowContext(ctx,
		`SELECT `+directoryColumns+` FROM directories WHERE location_id = ? AND directory_name = ?`, locationID, name))
	if err == sql.ErrNoRows {
		return nil, notFound("directory")
	}
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to query directory", err)
	}
	return dir, nil
}

// ListDirectories returns every directory of a location, newest first.
func (app *App) ListDirectories(ctx context.Context, locationID string) ([]models.Directory, error) {
	rows, err := app.DB.QueryContext(ctx,
		`SELECT `+directoryColumns+` FROM directories WHERE location_id = ? ORDER BY created_at DESC`, locationID)
	if err != nil {
		return nil, WrapDatabaseError(ErrTypeConnection, "failed to list directories", err)
	}
	defer rows.Close()

	dirs := []models.Directory{}
	for rows.Next() {
		dir, err := scanDirectory(rows)
		if err != nil {
			return nil, WrapDatabaseError(ErrTypeConnection, "failed to scan directory", err)
		}
		dirs = append(dirs, *dir)
	}
	return dirs, rows.Err()
}

// UpdateDirectory applies a partial update and regenerates the stored code
// when the configuration or styling changed.
func (app *App) UpdateDirectory(ctx context.Context, locationID, id string, upd DirectoryUpdate) (*models.Directory, error) {
	var updated *models.Directory
	err := app.WithTransaction(ctx, func(tx *sql.Tx) error {
		dir, err := scanDirectory(tx.QueryRowContext(ctx,
			`SELECT `+directoryColumns+` FROM directories WHERE id = ? AND location_id = ?`, id, locationID))
		if err == sql.ErrNoRows {
			return notFound("directory")
		}
		if err != nil {
			return WrapDatabaseError(ErrTypeConnection, "failed to query directory", err)
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return WrapDatabaseError(ErrTypeValidation, "name cannot be empty", nil)
			}
			dir.Name = name
		}
		if upd.Description != nil {
			dir.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.Active != nil {
			dir.Active = *upd.Active
		}
		if upd.Config != nil || upd.Styling != nil {
			if upd.Config != nil {
				if err := upd.Config.Validate(); err != nil {
					return WrapDatabaseError(ErrTypeValidation, err.Error(), nil)
				}
				dir.Config = *upd.Config
			}
			if upd.Styling != nil {
				dir.Styling = *upd.Styling
			}
			dir.Code = app.Generator.Generate(dir.Config, dir.Styling)
			dir.SyncStatus = models.SyncPending
		}
		dir.UpdatedAt = time.Now().UTC()

		configJSON, stylingJSON, err := encodeDirectorySettings(dir)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE directories SET name = ?, description = ?, config = ?, styling = ?, header_code = ?,
				footer_code = ?, code_valid = ?, active = ?, sync_status = ?, updated_at = ?
			WHERE id = ? AND location_id = ?
		`, dir.Name, dir.Description, configJSON, stylingJSON, dir.Code.HeaderCode, dir.Code.FooterCode,
			boolToInt(dir.Code.IsValid), boolToInt(dir.Active), dir.SyncStatus, dir.UpdatedAt, id, locationID)
		if err != nil {
			return wrapWriteError("directory", err)
		}
		updated = dir
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.invalidateEmbedCode(ctx, id)
	return updated, nil
}

// DeleteDirectory removes a directory. Listings keep their directory name
// so they can be reattached.
func (app *App) DeleteDirectory(ctx context.Context, locationID, id string) error {
	res, err := app.DB.ExecContext(ctx, `DELETE FROM directories WHERE id = ? AND location_id = ?`, id, locationID)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to delete directory", err)
	}
	if err := requireAffected(res, "directory"); err != nil {
		return err
	}

	app.invalidateEmbedCode(ctx, id)
	app.Logger.WithFields(map[string]interface{}{
		"location_id":  locationID,
		"directory_id": id,
	}).Info("Directory deleted")
	return nil
}

// directorySubmitter binds wizard submissions to a location.
func (app *App) directorySubmitter(locationID string) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, req wizard.CreateDirectoryRequest) (*models.Directory, error) {
		return app.CreateDirectory(ctx, locationID, req)
	})
}
