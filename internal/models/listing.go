package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostTypeHouse    = "house"
	PostTypeRoommate = "roommate"
)

type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     string             `bson:"ownerId" json:"ownerId" validate:"required"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	PostType    string             `bson:"postType" json:"postType" validate:"required,oneof=house roommate"`
	Location    string             `bson:"location" json:"location" validate:"required"`
	Rent        float64            `bson:"rent" json:"rent" validate:"gte=0"`
	Photos      []string           `bson:"photos" json:"photos" validate:"required,min=1,dive,required"`

	ContactNumber     string    `bson:"contactNumber" json:"contactNumber" validate:"required"`
	ContactPreference string    `bson:"contactPreference" json:"contactPreference" validate:"omitempty,oneof=Phone Email"`
	AvailableFrom     time.Time `bson:"availableFrom" json:"availableFrom" validate:"required"`
	VisitingHours     string    `bson:"visitingHours,omitempty" json:"visitingHours,omitempty"`

	// House specific
	Bedrooms  int      `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms int      `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Size      float64  `bson:"size,omitempty" json:"size,omitempty"` // square feet
	Amenities []string `bson:"amenities,omitempty" json:"amenities,omitempty"`

	// Roommate specific
	PreferredGender     string `bson:"preferredGender,omitempty" json:"preferredGender,omitempty" validate:"omitempty,oneof=Male Female Any"`
	PreferredOccupation string `bson:"preferredOccupation,omitempty" json:"preferredOccupation,omitempty" validate:"omitempty,oneof=Student Professional Any"`

	NIDNumber string   `bson:"nidNumber,omitempty" json:"nidNumber,omitempty"`
	Rules     []string `bson:"rules,omitempty" json:"rules,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ListingFilter carries the recognized, conjunctive search filters. Nil/empty
// fields are not applied.
type ListingFilter struct {
	PostType string
	Location string
	MinRent  *float64
	MaxRent  *float64
}

// SearchResult is the pagination envelope for listing search.
type SearchResult struct {
	Posts       []*Listing `json:"posts"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
}

// ListingProjection is the slice of listing fields joined onto booking queries.
type ListingProjection struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Photos   []string `json:"photos,omitempty"`
	Location string   `json:"location,omitempty"`
	Rent     float64  `json:"rent,omitempty"`
}

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *Listing) (*Listing, error)
	GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	// UpdateListing applies a partial field update and returns the new document.
	UpdateListing(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*Listing, error)
	DeleteListing(ctx context.Context, id primitive.ObjectID) error
	ListListingsByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	// SearchListings applies the filter, returning one page sorted by createdAt
	// descending and the total match count.
	SearchListings(ctx context.Context, filter ListingFilter, skip, limit int) ([]*Listing, int, error)
	GetListingsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]*Listing, error)
}
