package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SyncUser upserts the user document keyed by uid. Repeated calls with the
// same input converge to the same stored state, only lastLogin advances.
func (mdb *MongodbRepo) SyncUser(ctx context.Context, input UserSyncInput) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	filter := bson.M{"uid": input.UID}
	update := bson.M{
		"$set": bson.M{
			"name":      input.Name,
			"email":     input.Email,
			"photoURL":  input.PhotoURL,
			"lastLogin": now,
		},
		"$setOnInsert": bson.M{
			"uid":       input.UID,
			"role":      RoleUser,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user User
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("error upserting user: %v", err)
	}

	return &user, nil
}

func (mdb *MongodbRepo) GetUserByUID(ctx context.Context, uid string) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) SavePost(ctx context.Context, uid string, postID string) (*User, error) {
	return mdb.updateSavedPosts(ctx, uid, bson.M{"$addToSet": bson.M{"savedPostIds": postID}})
}

func (mdb *MongodbRepo) UnsavePost(ctx context.Context, uid string, postID string) (*User, error) {
	return mdb.updateSavedPosts(ctx, uid, bson.M{"$pull": bson.M{"savedPostIds": postID}})
}

func (mdb *MongodbRepo) updateSavedPosts(ctx context.Context, uid string, update bson.M) (*User, error) {
	col, err := mdb.GetCollection(ctx, DBName, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user User
	if err := col.FindOneAndUpdate(ctx, bson.M{"uid": uid}, update, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating saved posts: %v", err)
	}
	return &user, nil
}
