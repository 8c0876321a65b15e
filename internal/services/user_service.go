package services

import (
	"context"
	"fmt"

	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepo    models.UserRepo
	listingRepo models.ListingRepo
}

func NewUserService(userRepo models.UserRepo, listingRepo models.ListingRepo) *UserService {
	return &UserService{
		userRepo:    userRepo,
		listingRepo: listingRepo,
	}
}

// SyncUser upserts the user record on sign-in. Calling it again with the same
// input leaves the stored user unchanged apart from lastLogin.
func (us *UserService) SyncUser(ctx context.Context, input models.UserSyncInput) (*models.User, error) {
	if input.UID == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: UID and Email are required", models.ErrInvalidInput)
	}

	return us.userRepo.SyncUser(ctx, input)
}

// SavePost adds a post to the caller's saved set. The post must exist; the set
// semantics make repeated saves idempotent.
func (us *UserService) SavePost(ctx context.Context, uid string, postID primitive.ObjectID) (*models.User, error) {
	if _, err := us.listingRepo.GetListingByID(ctx, postID); err != nil {
		return nil, err
	}
	return us.userRepo.SavePost(ctx, uid, postID.Hex())
}

func (us *UserService) UnsavePost(ctx context.Context, uid string, postID primitive.ObjectID) (*models.User, error) {
	return us.userRepo.UnsavePost(ctx, uid, postID.Hex())
}

// ListSavedPosts resolves the caller's saved ids to posts, preserving save
// order and silently dropping ids whose post has since been deleted.
func (us *UserService) ListSavedPosts(ctx context.Context, uid string) ([]*models.Listing, error) {
	user, err := us.userRepo.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(user.SavedPostIDs))
	for _, raw := range user.SavedPostIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	found, err := us.listingRepo.GetListingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	listings := make([]*models.Listing, 0, len(found))
	for _, id := range ids {
		if listing, ok := found[id.Hex()]; ok {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}
