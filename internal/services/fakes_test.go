package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. They mirror the Mongo repo semantics (sorting,
// conditional updates, upserts) closely enough to exercise the services, and
// take a lock per call so the concurrency tests observe real interleavings.

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*models.Listing)}
}

func (f *fakeListingRepo) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	cp := *listing
	f.listings[listing.ID.Hex()] = &cp
	return listing, nil
}

func (f *fakeListingRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *listing
	return &cp, nil
}

func (f *fakeListingRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	if title, ok := fields["title"].(string); ok {
		listing.Title = title
	}
	if rent, ok := fields["rent"].(float64); ok {
		listing.Rent = rent
	}
	if ownerID, ok := fields["ownerId"].(string); ok {
		listing.OwnerID = ownerID
	}
	if updatedAt, ok := fields["updatedAt"].(time.Time); ok {
		listing.UpdatedAt = updatedAt
	}
	cp := *listing
	return &cp, nil
}

func (f *fakeListingRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.listings[id.Hex()]; !ok {
		return models.ErrNotFound
	}
	delete(f.listings, id.Hex())
	return nil
}

func (f *fakeListingRepo) ListListingsByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Listing{}
	for _, l := range f.listings {
		if l.OwnerID == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sortListingsByCreatedDesc(out)
	return out, nil
}

func (f *fakeListingRepo) SearchListings(ctx context.Context, filter models.ListingFilter, skip, limit int) ([]*models.Listing, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Listing{}
	for _, l := range f.listings {
		if filter.PostType != "" && l.PostType != filter.PostType {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.MinRent != nil && l.Rent < *filter.MinRent {
			continue
		}
		if filter.MaxRent != nil && l.Rent > *filter.MaxRent {
			continue
		}
		cp := *l
		matched = append(matched, &cp)
	}
	sortListingsByCreatedDesc(matched)

	total := len(matched)
	if skip >= total {
		return []*models.Listing{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (f *fakeListingRepo) GetListingsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*models.Listing, len(ids))
	for _, id := range ids {
		if l, ok := f.listings[id.Hex()]; ok {
			cp := *l
			out[id.Hex()] = &cp
		}
	}
	return out, nil
}

func sortListingsByCreatedDesc(listings []*models.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) InsertBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	// Mirror the partial unique index on pending pairs.
	if booking.Status == models.BookingPending {
		for _, b := range f.bookings {
			if b.PostID == booking.PostID && b.RequesterID == booking.RequesterID && b.Status == models.BookingPending {
				return nil, models.ErrDuplicatePending
			}
		}
	}
	cp := *booking
	f.bookings[booking.ID.Hex()] = &cp
	return booking, nil
}

func (f *fakeBookingRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *booking
	return &cp, nil
}

func (f *fakeBookingRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id.Hex()]; !ok {
		return models.ErrNotFound
	}
	delete(f.bookings, id.Hex())
	return nil
}

func (f *fakeBookingRepo) HasPendingForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PostID == postID && b.RequesterID == requesterID && b.Status == models.BookingPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, newStatus string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	if booking.Status != models.BookingPending {
		return nil, models.ErrInvalidTransition
	}
	booking.Status = newStatus
	booking.UpdatedAt = time.Now()
	cp := *booking
	return &cp, nil
}

func (f *fakeBookingRepo) ListBookingsByOwner(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	return f.list(func(b *models.Booking) bool { return b.OwnerID == ownerID })
}

func (f *fakeBookingRepo) ListBookingsByRequester(ctx context.Context, requesterID string) ([]*models.Booking, error) {
	return f.list(func(b *models.Booking) bool { return b.RequesterID == requesterID })
}

func (f *fakeBookingRepo) list(match func(*models.Booking) bool) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Booking{}
	for _, b := range f.bookings {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBookingRepo) LatestForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (*models.Booking, error) {
	matches, err := f.list(func(b *models.Booking) bool {
		return b.PostID == postID && b.RequesterID == requesterID
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) SyncUser(ctx context.Context, input models.UserSyncInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	user, ok := f.users[input.UID]
	if !ok {
		user = &models.User{
			ID:        primitive.NewObjectID(),
			UID:       input.UID,
			Role:      models.RoleUser,
			CreatedAt: now,
		}
		f.users[input.UID] = user
	}
	user.Name = input.Name
	user.Email = input.Email
	user.PhotoURL = input.PhotoURL
	login := now
	user.LastLogin = &login
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *user
	cp.SavedPostIDs = append([]string(nil), user.SavedPostIDs...)
	return &cp, nil
}

func (f *fakeUserRepo) SavePost(ctx context.Context, uid string, postID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, saved := range user.SavedPostIDs {
		if saved == postID {
			cp := *user
			return &cp, nil
		}
	}
	user.SavedPostIDs = append(user.SavedPostIDs, postID)
	cp := *user
	cp.SavedPostIDs = append([]string(nil), user.SavedPostIDs...)
	return &cp, nil
}

func (f *fakeUserRepo) UnsavePost(ctx context.Context, uid string, postID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	kept := user.SavedPostIDs[:0]
	for _, saved := range user.SavedPostIDs {
		if saved != postID {
			kept = append(kept, saved)
		}
	}
	user.SavedPostIDs = kept
	cp := *user
	cp.SavedPostIDs = append([]string(nil), user.SavedPostIDs...)
	return &cp, nil
}
