package repository

import (
	"context"
	"math"
	"testing"

	"quill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryPostRepository(t *testing.T) {
	testPostRepository(t, func(t *testing.T) PostRepository {
		return NewMemoryPostRepository()
	})
}

func TestMemoryUserRepository(t *testing.T) {
	testUserRepository(t, func(t *testing.T) UserRepository {
		return NewMemoryUserRepository()
	})
}

func TestMemoryPostRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	post := &models.Post{Title: "Original", Content: "Body", AuthorID: primitive.NewObjectID(), Category: models.CategoryOther, Tags: []string{"a"}}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	got.Title = "Mutated"
	got.Tags[0] = "z"

	again, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestMemoryPostRepository_SearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	require.NoError(t, repo.Create(ctx, &models.Post{Title: "Learning GOLANG", Content: "x", AuthorID: primitive.NewObjectID(), Category: models.CategoryTechnology}))

	posts, total, err := repo.List(ctx, models.PostFilter{Search: "golang"}, models.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, posts, 1)
}

func TestMemoryPostRepository_NegativeOffset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	require.NoError(t, repo.Create(ctx, &models.Post{Title: "Only", Content: "x", AuthorID: primitive.NewObjectID(), Category: models.CategoryOther}))

	posts, total, err := repo.List(ctx, models.PostFilter{}, models.Page{Number: math.MaxInt, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, posts)
}

func TestMemoryUserRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "dave", Email: "dave@example.com"}))
	err := repo.Create(ctx, &models.User{Username: "dave", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryContactRepository()

	submission := &models.ContactSubmission{Name: "Eve", Email: "eve@example.com", Subject: "Hi", Message: "Hello there"}
	require.NoError(t, repo.Create(ctx, submission))

	assert.False(t, submission.ID.IsZero())
	assert.False(t, submission.CreatedAt.IsZero())

	stored := repo.Submissions()
	require.Len(t, stored, 1)
	assert.Equal(t, "Eve", stored[0].Name)
}
