package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
)

type ListingService struct {
	listingRepo models.ListingRepo
}

func NewListingService(listingRepo models.ListingRepo) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
	}
}

func (ls *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if listing.OwnerID == "" {
		return nil, fmt.Errorf("%w: Owner ID is required", models.ErrInvalidInput)
	}
	if listing.ContactPreference == "" {
		listing.ContactPreference = "Phone"
	}

	if err := models.Validate.Struct(listing); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	return ls.listingRepo.CreateListing(ctx, listing)
}

func (ls *ListingService) GetListing(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	return ls.listingRepo.GetListingByID(ctx, id)
}

func (ls *ListingService) DeleteListing(ctx context.Context, id primitive.ObjectID, callerID string) error {
	listing, err := ls.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return err
	}

	if !models.CanDeleteListing(callerID, listing) {
		return models.ErrForbidden
	}

	// Bookings referencing the post are left in place. They carry their own
	// owner snapshot and degrade to a nil post projection on join.
	return ls.listingRepo.DeleteListing(ctx, id)
}

// UpdateListing applies an owner-initiated partial update. Identity and
// provenance fields can never be rewritten.
func (ls *ListingService) UpdateListing(ctx context.Context, id primitive.ObjectID, callerID string, fields map[string]interface{}) (*models.Listing, error) {
	listing, err := ls.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanUpdateListing(callerID, listing) {
		return nil, models.ErrForbidden
	}

	delete(fields, "_id")
	delete(fields, "id")
	delete(fields, "ownerId")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", models.ErrInvalidInput)
	}
	if err := validateListingUpdate(fields); err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now()

	return ls.listingRepo.UpdateListing(ctx, id, fields)
}

// updatableListingFields is the set of keys an owner may rewrite after
// creation. Anything else in the payload is rejected rather than passed
// through to the store.
var updatableListingFields = map[string]bool{
	"title":               true,
	"description":         true,
	"postType":            true,
	"location":            true,
	"rent":                true,
	"photos":              true,
	"contactNumber":       true,
	"contactPreference":   true,
	"availableFrom":       true,
	"visitingHours":       true,
	"bedrooms":            true,
	"bathrooms":           true,
	"size":                true,
	"amenities":           true,
	"preferredGender":     true,
	"preferredOccupation": true,
	"nidNumber":           true,
	"rules":               true,
}

// validateListingUpdate enforces on a partial update the same constraints
// CreateListing enforces on a full document: rent stays non-negative, the
// enum fields stay within their allowed values and photos stay non-empty.
func validateListingUpdate(fields map[string]interface{}) error {
	for key := range fields {
		if !updatableListingFields[key] {
			return fmt.Errorf("%w: unknown field %q", models.ErrInvalidInput, key)
		}
	}

	if raw, ok := fields["rent"]; ok {
		rent, isNumber := raw.(float64)
		if !isNumber || rent < 0 {
			return fmt.Errorf("%w: rent must be a non-negative number", models.ErrInvalidInput)
		}
	}
	if raw, ok := fields["photos"]; ok {
		list, isList := raw.([]interface{})
		if !isList || len(list) == 0 {
			return fmt.Errorf("%w: at least one photo is required", models.ErrInvalidInput)
		}
		for _, photo := range list {
			if s, isString := photo.(string); !isString || s == "" {
				return fmt.Errorf("%w: photos must be non-empty strings", models.ErrInvalidInput)
			}
		}
	}

	enums := []struct {
		key     string
		allowed []string
	}{
		{"postType", []string{models.PostTypeHouse, models.PostTypeRoommate}},
		{"contactPreference", []string{"Phone", "Email"}},
		{"preferredGender", []string{"Male", "Female", "Any"}},
		{"preferredOccupation", []string{"Student", "Professional", "Any"}},
	}
	for _, enum := range enums {
		raw, ok := fields[enum.key]
		if !ok {
			continue
		}
		value, isString := raw.(string)
		if !isString || !contains(enum.allowed, value) {
			return fmt.Errorf("%w: %s must be one of %v", models.ErrInvalidInput, enum.key, enum.allowed)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func (ls *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	return ls.listingRepo.ListListingsByOwner(ctx, ownerID)
}

// SearchParams are the raw query values before coercion.
type SearchParams struct {
	Page     string
	Limit    string
	PostType string
	Location string
	MinPrice string
	MaxPrice string
}

// Search coerces the pagination values, builds the conjunctive filter and
// returns one page. Unparseable or non-positive page/limit values fall back to
// the defaults rather than erroring, and an unparseable price bound is simply
// not applied.
func (ls *ListingService) Search(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	page := parsePositiveInt(params.Page, DefaultPage)
	limit := parsePositiveInt(params.Limit, DefaultLimit)

	filter := models.ListingFilter{
		PostType: params.PostType,
		Location: params.Location,
		MinRent:  parsePrice(params.MinPrice),
		MaxRent:  parsePrice(params.MaxPrice),
	}

	skip := (page - 1) * limit
	listings, total, err := ls.listingRepo.SearchListings(ctx, filter, skip, limit)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Posts:       listings,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

func parsePositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
