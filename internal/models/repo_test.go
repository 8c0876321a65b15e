package models

// A single MongodbRepo backs every repository interface, so the method sets
// must stay disjoint across the user, listing and booking surfaces.
var (
	_ UserRepo    = (*MongodbRepo)(nil)
	_ ListingRepo = (*MongodbRepo)(nil)
	_ BookingRepo = (*MongodbRepo)(nil)
)
