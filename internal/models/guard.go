package models

// Pure authorization checks. Each one compares a caller id against the ids
// stored on the resource; the handler layer maps a false result to 403.

func CanDeleteListing(callerID string, listing *Listing) bool {
	return callerID == listing.OwnerID
}

func CanUpdateListing(callerID string, listing *Listing) bool {
	return callerID == listing.OwnerID
}

func CanCreateBooking(callerID string, listing *Listing) bool {
	return callerID != listing.OwnerID
}

func CanUpdateBookingStatus(callerID string, booking *Booking) bool {
	return callerID == booking.OwnerID
}

func CanDeleteBooking(callerID string, booking *Booking) bool {
	return callerID == booking.RequesterID
}
