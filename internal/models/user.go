package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid" json:"uid" validate:"required"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	PhotoURL     string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Role         string             `bson:"role" json:"role"`
	SavedPostIDs []string           `bson:"savedPostIds,omitempty" json:"savedPostIds,omitempty"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSyncInput is the payload a client sends after a successful sign-in.
type UserSyncInput struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

type UserRepo interface {
	// SyncUser upserts a user keyed by uid, refreshing name/email/photoURL and
	// lastLogin, and returns the stored document.
	SyncUser(ctx context.Context, input UserSyncInput) (*User, error)
	GetUserByUID(ctx context.Context, uid string) (*User, error)
	SavePost(ctx context.Context, uid string, postID string) (*User, error)
	UnsavePost(ctx context.Context, uid string, postID string) (*User, error)
}
