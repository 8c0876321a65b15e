package services

import (
	"context"
	"fmt"
	"time"

	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService struct {
	bookingRepo models.BookingRepo
	listingRepo models.ListingRepo
	pairLocks   *keyedMutex
}

func NewBookingService(bookingRepo models.BookingRepo, listingRepo models.ListingRepo) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		pairLocks:   newKeyedMutex(),
	}
}

type CreateBookingInput struct {
	PostID         primitive.ObjectID
	RequesterID    string
	RequesterName  string
	RequesterEmail string
}

// CreateBooking runs the booking request lifecycle: resolve the post, reject
// self-booking, refuse a second pending request for the same (post, requester)
// pair, then insert with the post's owner id snapshotted onto the booking.
// The pair lock makes the duplicate check and the insert one critical section;
// the partial unique index backstops deployments with multiple processes.
func (bs *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.RequesterName == "" || input.RequesterEmail == "" {
		return nil, fmt.Errorf("%w: requester name and email are required", models.ErrInvalidInput)
	}

	pairKey := input.PostID.Hex() + "/" + input.RequesterID
	bs.pairLocks.Lock(pairKey)
	defer bs.pairLocks.Unlock(pairKey)

	listing, err := bs.listingRepo.GetListingByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}

	if !models.CanCreateBooking(input.RequesterID, listing) {
		return nil, models.ErrSelfBooking
	}

	exists, err := bs.bookingRepo.HasPendingForPair(ctx, input.PostID, input.RequesterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicatePending
	}

	now := time.Now()
	booking := &models.Booking{
		PostID:         input.PostID,
		OwnerID:        listing.OwnerID,
		RequesterID:    input.RequesterID,
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		Status:         models.BookingPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return bs.bookingRepo.InsertBooking(ctx, booking)
}

// TransitionStatus moves a booking from Pending to Approved or Rejected. Only
// the post owner may decide, and a booking that has already been decided stays
// decided.
func (bs *BookingService) TransitionStatus(ctx context.Context, bookingID primitive.ObjectID, callerID, newStatus string) (*models.Booking, error) {
	if newStatus != models.BookingApproved && newStatus != models.BookingRejected {
		return nil, fmt.Errorf("%w: status must be Approved or Rejected", models.ErrInvalidInput)
	}

	booking, err := bs.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !models.CanUpdateBookingStatus(callerID, booking) {
		return nil, models.ErrForbidden
	}

	return bs.bookingRepo.UpdateStatusIfPending(ctx, bookingID, newStatus)
}

// CancelBooking removes a booking. Only the requester may cancel, in any
// status.
func (bs *BookingService) CancelBooking(ctx context.Context, bookingID primitive.ObjectID, callerID string) error {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !models.CanDeleteBooking(callerID, booking) {
		return models.ErrForbidden
	}

	return bs.bookingRepo.DeleteBooking(ctx, bookingID)
}

// ReceivedBookings lists requests against the caller's posts, newest first,
// each joined with a title/photos projection of its post.
func (bs *BookingService) ReceivedBookings(ctx context.Context, ownerID string) ([]*models.BookingWithListing, error) {
	bookings, err := bs.bookingRepo.ListBookingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return bs.joinListings(ctx, bookings, false)
}

// SentBookings lists the caller's outgoing requests, newest first, joined with
// a wider projection (title/photos/location/rent) of each post.
func (bs *BookingService) SentBookings(ctx context.Context, requesterID string) ([]*models.BookingWithListing, error) {
	bookings, err := bs.bookingRepo.ListBookingsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return bs.joinListings(ctx, bookings, true)
}

// CheckStatus reports whether the caller has a booking on the post. When the
// pair has accumulated history, the most recent booking wins.
func (bs *BookingService) CheckStatus(ctx context.Context, postID primitive.ObjectID, callerID string) (*models.BookingStatusCheck, error) {
	booking, err := bs.bookingRepo.LatestForPair(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return &models.BookingStatusCheck{HasBooking: false, Status: nil}, nil
	}
	status := booking.Status
	return &models.BookingStatusCheck{HasBooking: true, Status: &status}, nil
}

// joinListings resolves the posts referenced by the bookings in one query.
// A booking whose post has been deleted keeps a nil projection, it does not
// fail the whole listing.
func (bs *BookingService) joinListings(ctx context.Context, bookings []*models.Booking, wide bool) ([]*models.BookingWithListing, error) {
	ids := make([]primitive.ObjectID, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		hexID := b.PostID.Hex()
		if !seen[hexID] {
			seen[hexID] = true
			ids = append(ids, b.PostID)
		}
	}

	listings, err := bs.listingRepo.GetListingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	joined := make([]*models.BookingWithListing, 0, len(bookings))
	for _, b := range bookings {
		item := &models.BookingWithListing{Booking: *b}
		if listing, ok := listings[b.PostID.Hex()]; ok {
			proj := &models.ListingProjection{
				ID:     listing.ID.Hex(),
				Title:  listing.Title,
				Photos: listing.Photos,
			}
			if wide {
				proj.Location = listing.Location
				proj.Rent = listing.Rent
			}
			item.Post = proj
		}
		joined = append(joined, item)
	}
	return joined, nil
}
