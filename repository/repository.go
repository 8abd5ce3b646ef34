// Package repository persists posts, users and contact submissions.
// Two implementations exist: MongoDB for production and an in-memory
// store used by tests and the memory storage mode.
package repository

import (
	"context"
	"errors"

	"quill/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("repository: not found")
	// ErrNotOwner is returned by conditional writes when the record exists
	// but belongs to someone else.
	ErrNotOwner  = errors.New("repository: not owned by caller")
	ErrDuplicate = errors.New("repository: duplicate key")
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, int64, error)
	// UpdateOwned replaces the editable fields only when the post's author
	// is authorID.
	UpdateOwned(ctx context.Context, id, authorID primitive.ObjectID, fields models.PostFields) (*models.Post, error)
	// DeleteOwned removes the post only when its author is authorID.
	DeleteOwned(ctx context.Context, id, authorID primitive.ObjectID) error
	// PrependComment inserts comment at the front of the comment list in a
	// single write.
	PrependComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error)
	// ToggleLike removes userID from likes if present and prepends it
	// otherwise, in a single write.
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
}

type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
}
