package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("error inserting post: %v", err)
	}
	return listing, nil
}

func (mdb *MongodbRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var listing Listing
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding post: %v", err)
	}
	return &listing, nil
}

func (mdb *MongodbRepo) UpdateListing(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing Listing
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating post: %v", err)
	}
	return &listing, nil
}

func (mdb *MongodbRepo) DeleteListing(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting post: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) ListListingsByOwner(ctx context.Context, ownerID string) ([]*Listing, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts by owner: %v", err)
	}
	defer cursor.Close(ctx)

	listings := []*Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("error decoding posts: %v", err)
	}
	return listings, nil
}

// SearchListings counts the total matches for the conjunctive filter, then
// returns one page sorted by createdAt descending.
func (mdb *MongodbRepo) SearchListings(ctx context.Context, filter ListingFilter, skip, limit int) ([]*Listing, int, error) {
	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{}
	if filter.PostType != "" {
		query["postType"] = filter.PostType
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": regexp.QuoteMeta(filter.Location), "$options": "i"}
	}
	rent := bson.M{}
	if filter.MinRent != nil {
		rent["$gte"] = *filter.MinRent
	}
	if filter.MaxRent != nil {
		rent["$lte"] = *filter.MaxRent
	}
	if len(rent) > 0 {
		query["rent"] = rent
	}

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding posts: %v", err)
	}
	defer cursor.Close(ctx)

	listings := []*Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("error decoding posts: %v", err)
	}
	return listings, int(total), nil
}

// GetListingsByIDs fetches the given posts in one query, keyed by hex id.
// Missing ids are simply absent from the result map.
func (mdb *MongodbRepo) GetListingsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]*Listing, error) {
	result := make(map[string]*Listing, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	col, err := mdb.GetCollection(ctx, DBName, PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var listing Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, fmt.Errorf("error decoding post: %v", err)
		}
		result[listing.ID.Hex()] = &listing
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return result, nil
}
