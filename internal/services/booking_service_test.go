package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedListing(t *testing.T, repo *fakeListingRepo, ownerID string) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		OwnerID:       ownerID,
		Title:         "Two bedroom flat",
		Description:   "Close to campus",
		PostType:      models.PostTypeHouse,
		Location:      "Dhanmondi, Dhaka",
		Rent:          12000,
		Photos:        []string{"https://example.com/p1.jpg"},
		ContactNumber: "01700000000",
		AvailableFrom: time.Now(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	created, err := repo.CreateListing(context.Background(), listing)
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return created
}

func newBookingFixture(t *testing.T) (*BookingService, *fakeListingRepo, *fakeBookingRepo) {
	t.Helper()
	listings := newFakeListingRepo()
	bookings := newFakeBookingRepo()
	return NewBookingService(bookings, listings), listings, bookings
}

func TestCreateBooking(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if booking.Status != models.BookingPending {
		t.Errorf("status = %q, want %q", booking.Status, models.BookingPending)
	}
	if booking.OwnerID != "owner-1" {
		t.Errorf("ownerId = %q, want owner snapshot %q", booking.OwnerID, "owner-1")
	}
}

func TestCreateBookingListingNotFound(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         primitive.NewObjectID(),
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateBookingSelfBookingRejected(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "owner-1",
		RequesterName:  "Owner",
		RequesterEmail: "owner@example.com",
	})
	if !errors.Is(err, models.ErrSelfBooking) {
		t.Fatalf("err = %v, want ErrSelfBooking", err)
	}
}

func TestCreateBookingDuplicatePending(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	input := CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	}

	if _, err := svc.CreateBooking(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateBooking(context.Background(), input)
	if !errors.Is(err, models.ErrDuplicatePending) {
		t.Fatalf("err = %v, want ErrDuplicatePending", err)
	}
}

func TestCreateBookingAfterRejectionAllowed(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	input := CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	}

	first, err := svc.CreateBooking(context.Background(), input)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.TransitionStatus(context.Background(), first.ID, "owner-1", models.BookingRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// The rejected booking stays in history, a fresh pending one is allowed.
	if _, err := svc.CreateBooking(context.Background(), input); err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}
}

func TestCreateBookingConcurrentSamePair(t *testing.T) {
	svc, listings, bookings := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), CreateBookingInput{
				PostID:         listing.ID,
				RequesterID:    "requester-1",
				RequesterName:  "Rahim",
				RequesterEmail: "rahim@example.com",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrDuplicatePending):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}

	pending, err := bookings.HasPendingForPair(context.Background(), listing.ID, "requester-1")
	if err != nil {
		t.Fatalf("HasPendingForPair: %v", err)
	}
	if !pending {
		t.Fatal("expected one pending booking to remain")
	}
}

func TestTransitionStatus(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The requester may not decide their own request.
	if _, err := svc.TransitionStatus(context.Background(), booking.ID, "requester-1", models.BookingApproved); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("requester transition err = %v, want ErrForbidden", err)
	}

	updated, err := svc.TransitionStatus(context.Background(), booking.ID, "owner-1", models.BookingApproved)
	if err != nil {
		t.Fatalf("owner transition: %v", err)
	}
	if updated.Status != models.BookingApproved {
		t.Errorf("status = %q, want Approved", updated.Status)
	}

	received, err := svc.ReceivedBookings(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ReceivedBookings: %v", err)
	}
	if len(received) != 1 || received[0].Status != models.BookingApproved {
		t.Errorf("received = %+v, want one approved booking", received)
	}
}

func TestTransitionStatusTerminalRejected(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.TransitionStatus(context.Background(), booking.ID, "owner-1", models.BookingRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, err = svc.TransitionStatus(context.Background(), booking.ID, "owner-1", models.BookingApproved)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("re-transition err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionStatusInvalidTarget(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.TransitionStatus(context.Background(), booking.ID, "owner-1", models.BookingPending)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCancelBookingRequesterOnly(t *testing.T) {
	svc, listings, bookings := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.CancelBooking(context.Background(), booking.ID, "owner-1"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("owner cancel err = %v, want ErrForbidden", err)
	}

	if err := svc.CancelBooking(context.Background(), booking.ID, "requester-1"); err != nil {
		t.Fatalf("requester cancel: %v", err)
	}
	if _, err := bookings.GetBookingByID(context.Background(), booking.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("booking still present after cancel, err = %v", err)
	}
}

func TestSentBookingsJoinsListingProjection(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	sent, err := svc.SentBookings(context.Background(), "requester-1")
	if err != nil {
		t.Fatalf("SentBookings: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(sent))
	}
	post := sent[0].Post
	if post == nil {
		t.Fatal("sent booking missing post projection")
	}
	if post.Title != listing.Title || post.Location != listing.Location || post.Rent != listing.Rent {
		t.Errorf("projection = %+v, want title/location/rent from listing", post)
	}
}

func TestReceivedBookingsDeletedListingDegrades(t *testing.T) {
	svc, listings, _ := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := listings.DeleteListing(context.Background(), listing.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	received, err := svc.ReceivedBookings(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ReceivedBookings: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("len(received) = %d, want 1", len(received))
	}
	if received[0].Post != nil {
		t.Errorf("post projection = %+v, want nil for deleted listing", received[0].Post)
	}
}

func TestCheckStatus(t *testing.T) {
	svc, listings, bookings := newBookingFixture(t)
	listing := seedListing(t, listings, "owner-1")

	check, err := svc.CheckStatus(context.Background(), listing.ID, "requester-1")
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if check.HasBooking || check.Status != nil {
		t.Errorf("check = %+v, want no booking", check)
	}

	// An older rejected booking plus a newer pending one: the newest wins.
	old := &models.Booking{
		PostID:         listing.ID,
		OwnerID:        "owner-1",
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
		Status:         models.BookingRejected,
		CreatedAt:      time.Now().Add(-time.Hour),
	}
	if _, err := bookings.InsertBooking(context.Background(), old); err != nil {
		t.Fatalf("insert old booking: %v", err)
	}
	if _, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		PostID:         listing.ID,
		RequesterID:    "requester-1",
		RequesterName:  "Rahim",
		RequesterEmail: "rahim@example.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	check, err = svc.CheckStatus(context.Background(), listing.ID, "requester-1")
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if !check.HasBooking || check.Status == nil || *check.Status != models.BookingPending {
		t.Errorf("check = %+v, want most recent (Pending)", check)
	}
}
