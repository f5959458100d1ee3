// Package store defines the persistence interfaces the handlers depend on
// and their MongoDB implementations.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialfeed/models"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("store: not found")

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailOrUsername returns any user matching either field.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}

type PostStore interface {
	Insert(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]models.Post, error)
	Replace(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CommentStore interface {
	Insert(ctx context.Context, comment *models.Comment) error
	// ListByPost returns the post's comments, newest first.
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}
