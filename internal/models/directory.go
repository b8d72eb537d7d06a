package models

import "time"

// SyncStatus tracks whether a record has been pushed to GoHighLevel.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// Directory groups the listings and collections of one GHL location.
type Directory struct {
	ID            string          `json:"id"`
	LocationID    string          `json:"locationId"`
	DirectoryName string          `json:"directoryName"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Config        DirectoryConfig `json:"config"`
	Styling       Styling         `json:"styling"`
	Code          GeneratedCode   `json:"code"`
	Active        bool            `json:"active"`
	SyncStatus    SyncStatus      `json:"syncStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Collection is a named subset of listings within a directory.
type Collection struct {
	ID              string     `json:"id"`
	LocationID      string     `json:"locationId"`
	DirectoryName   string     `json:"directoryName"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"imageUrl"`
	GHLCollectionID string     `json:"ghlCollectionId,omitempty"`
	Active          bool       `json:"active"`
	SyncStatus      SyncStatus `json:"syncStatus"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CollectionItem links a listing into a collection with ordering.
type CollectionItem struct {
	CollectionID string `json:"collectionId"`
	ListingID    string `json:"listingId"`
	SortOrder    int    `json:"sortOrder"`
}

// Listing is a single product or business entry, backed by a GHL product.
type Listing struct {
	ID            string            `json:"id"`
	LocationID    string            `json:"locationId"`
	DirectoryName string            `json:"directoryName"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	ImageURL      string            `json:"imageUrl"`
	Metadata      map[string]string `json:"metadata"`
	GHLProductID  string            `json:"ghlProductId,omitempty"`
	Active        bool              `json:"active"`
	SyncStatus    SyncStatus        `json:"syncStatus"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Listing add-on types
const (
	AddonExpandedDescription = "expanded_description"
	AddonMetadata            = "metadata"
	AddonMap                 = "map"
)

// ListingAddon is extra content rendered alongside a listing.
type ListingAddon struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsValidAddonType reports whether t is a known add-on type.
func IsValidAddonType(t string) bool {
	switch t {
	case AddonExpandedDescription, AddonMetadata, AddonMap:
		return true
	}
	return false
}
