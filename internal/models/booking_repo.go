package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the booking and post indexes. The partial unique index
// over (postId, requesterId) filtered to Pending is the store-level guarantee
// that two concurrent requests cannot both land as Pending.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	bookings, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	bookingIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "postId", Value: 1},
				{Key: "requesterId", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": BookingPending}).
				SetName("pending_pair_unique"),
		},
		{
			Keys: bson.D{
				{Key: "ownerId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("owner_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "requesterId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("requester_created_idx"),
		},
	}
	if _, err := bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("error creating booking indexes: %v", err)
	}

	posts, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	postIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ownerId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("owner_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "postType", Value: 1},
				{Key: "rent", Value: 1},
			},
			Options: options.Index().SetName("type_rent_idx"),
		},
	}
	if _, err := posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("error creating post indexes: %v", err)
	}

	users, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uid_unique"),
		},
	}
	if _, err := users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("error creating user indexes: %v", err)
	}

	return nil
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePending
		}
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding booking: %v", err)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting booking: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) HasPendingForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (bool, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{
		"postId":      postID,
		"requesterId": requesterID,
		"status":      BookingPending,
	})
	if err != nil {
		return false, fmt.Errorf("error counting pending bookings: %v", err)
	}
	return count > 0, nil
}

// UpdateStatusIfPending is a single conditional update: the filter requires the
// booking to still be Pending, so check-and-set cannot race with another
// transition. A terminal booking surfaces as ErrInvalidTransition, a missing
// one as ErrNotFound.
func (mdb *MongodbRepo) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, newStatus string) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "status": BookingPending}
	update := bson.M{"$set": bson.M{"status": newStatus, "updatedAt": timeNow()}}

	var booking Booking
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish "gone" from "already decided".
			if _, getErr := mdb.GetBookingByID(ctx, id); getErr == nil {
				return nil, ErrInvalidTransition
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating booking status: %v", err)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) ListBookingsByOwner(ctx context.Context, ownerID string) ([]*Booking, error) {
	return mdb.listBookings(ctx, bson.M{"ownerId": ownerID})
}

func (mdb *MongodbRepo) ListBookingsByRequester(ctx context.Context, requesterID string) ([]*Booking, error) {
	return mdb.listBookings(ctx, bson.M{"requesterId": requesterID})
}

func (mdb *MongodbRepo) listBookings(ctx context.Context, filter bson.M) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	bookings := []*Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %v", err)
	}
	return bookings, nil
}

func (mdb *MongodbRepo) LatestForPair(ctx context.Context, postID primitive.ObjectID, requesterID string) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	filter := bson.M{"postId": postID, "requesterId": requesterID}

	var booking Booking
	if err := col.FindOne(ctx, filter, opts).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding booking: %v", err)
	}
	return &booking, nil
}
