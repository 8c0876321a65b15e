package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending  = "Pending"
	BookingApproved = "Approved"
	BookingRejected = "Rejected"
)

type Booking struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID primitive.ObjectID `bson:"postId" json:"postId"`
	// OwnerID is copied from the referenced post at creation time. Post
	// ownership is immutable, so the snapshot never goes stale.
	OwnerID        string    `bson:"ownerId" json:"ownerId"`
	RequesterID    string    `bson:"requesterId" json:"requesterId"`
	RequesterName  string    `bson:"requesterName" json:"requesterName" validate:"required"`
	RequesterEmail string    `bson:"requesterEmail" json:"requesterEmail" validate:"required,email"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingWithListing joins a booking with a projection of its post for the
// received/sent queries. Post is nil when the post has since been deleted.
type BookingWithListing struct {
	Booking
	Post *ListingProjection `json:"post,omitempty"`
}

// BookingStatusCheck reports whether the caller has any booking on a post.
type BookingStatusCheck struct {
	HasBooking bool    `json:"hasBooking"`
	Status     *string `json:"status"`
}

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error
	// HasPendingForPair reports whether a Pending booking already exists for
	// (postID, requesterID).
	HasPendingForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (bool, error)
	// UpdateStatusIfPending transitions a booking to newStatus only when its
	// current status is Pending, returning the updated document or
	// ErrInvalidTransition.
	UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, newStatus string) (*Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID string) ([]*Booking, error)
	ListBookingsByRequester(ctx context.Context, requesterID string) ([]*Booking, error)
	// LatestForPair returns the most recent booking for (postID, requesterID)
	// regardless of status, or nil when none exists.
	LatestForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (*Booking, error)
}
