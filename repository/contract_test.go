package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"quill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testPostRepository runs the behaviour every PostRepository must share.
func testPostRepository(t *testing.T, newRepo func(t *testing.T) PostRepository) {
	ctx := context.Background()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	newPost := func(title, content, category string) *models.Post {
		return &models.Post{
			Title:    title,
			Content:  content,
			AuthorID: alice,
			Category: category,
		}
	}

	t.Run("Create and FindByID", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Hello", "World", models.CategoryTechnology)
		post.Tags = []string{"go", "mongo"}

		require.NoError(t, repo.Create(ctx, post))
		assert.False(t, post.ID.IsZero())
		assert.False(t, post.CreatedAt.IsZero())

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Title)
		assert.Equal(t, alice, got.AuthorID)
		assert.Equal(t, []string{"go", "mongo"}, got.Tags)
		assert.Empty(t, got.Likes)
		assert.NotNil(t, got.Likes)
		assert.NotNil(t, got.Comments)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List filters, sorts and pages", func(t *testing.T) {
		repo := newRepo(t)
		for _, p := range []*models.Post{
			newPost("Kubernetes tips", "Running containers", models.CategoryTechnology),
			newPost("Pasta night", "Cooking with friends", models.CategoryFood),
			newPost("Go generics", "Type parameters explained", models.CategoryTechnology),
		} {
			require.NoError(t, repo.Create(ctx, p))
			time.Sleep(5 * time.Millisecond)
		}
		other := newPost("Hiking", "Mountains and containers", models.CategoryTravel)
		other.AuthorID = bob
		require.NoError(t, repo.Create(ctx, other))

		posts, total, err := repo.List(ctx, models.PostFilter{}, models.Page{Number: 1, Size: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, posts, 2)
		assert.Equal(t, "Hiking", posts[0].Title)
		assert.Equal(t, "Go generics", posts[1].Title)

		posts, _, err = repo.List(ctx, models.PostFilter{}, models.Page{Number: 2, Size: 2})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "Pasta night", posts[0].Title)

		posts, total, err = repo.List(ctx, models.PostFilter{Category: models.CategoryTechnology}, models.Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, p := range posts {
			assert.Equal(t, models.CategoryTechnology, p.Category)
		}

		posts, total, err = repo.List(ctx, models.PostFilter{Search: "containers"}, models.Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)

		posts, total, err = repo.List(ctx, models.PostFilter{Search: "containers", Category: models.CategoryTravel}, models.Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Hiking", posts[0].Title)

		posts, total, err = repo.List(ctx, models.PostFilter{AuthorID: bob}, models.Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, bob, posts[0].AuthorID)

		posts, _, err = repo.List(ctx, models.PostFilter{}, models.Page{Number: 9, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("UpdateOwned", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Before", "Body", models.CategoryFood)
		post.Tags = []string{"old"}
		post.CoverImage = "https://img.example.com/a.png"
		require.NoError(t, repo.Create(ctx, post))

		_, err := repo.UpdateOwned(ctx, post.ID, bob, models.PostFields{Title: "Hijacked", Content: "x", Category: models.CategoryOther})
		assert.ErrorIs(t, err, ErrNotOwner)

		unchanged, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Before", unchanged.Title)

		updated, err := repo.UpdateOwned(ctx, post.ID, alice, models.PostFields{Title: "After", Content: "New body", Category: models.CategoryHealth})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, models.CategoryHealth, updated.Category)
		assert.Empty(t, updated.Tags)
		assert.Equal(t, "", updated.CoverImage)
		assert.Equal(t, alice, updated.AuthorID)

		_, err = repo.UpdateOwned(ctx, primitive.NewObjectID(), alice, models.PostFields{Title: "t", Content: "c", Category: models.CategoryOther})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteOwned", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Doomed", "Body", models.CategoryOther)
		require.NoError(t, repo.Create(ctx, post))

		assert.ErrorIs(t, repo.DeleteOwned(ctx, post.ID, bob), ErrNotOwner)
		_, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteOwned(ctx, post.ID, alice))
		_, err = repo.FindByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.DeleteOwned(ctx, post.ID, alice), ErrNotFound)
	})

	t.Run("PrependComment keeps newest first", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Commented", "Body", models.CategoryOther)
		require.NoError(t, repo.Create(ctx, post))

		first := models.Comment{ID: primitive.NewObjectID(), UserID: bob, Text: "first", Date: time.Now().UTC()}
		second := models.Comment{ID: primitive.NewObjectID(), UserID: alice, Text: "second", Date: time.Now().UTC()}

		_, err := repo.PrependComment(ctx, post.ID, first)
		require.NoError(t, err)
		updated, err := repo.PrependComment(ctx, post.ID, second)
		require.NoError(t, err)

		require.Len(t, updated.Comments, 2)
		assert.Equal(t, "second", updated.Comments[0].Text)
		assert.Equal(t, "first", updated.Comments[1].Text)

		_, err = repo.PrependComment(ctx, primitive.NewObjectID(), first)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ToggleLike", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Liked", "Body", models.CategoryOther)
		require.NoError(t, repo.Create(ctx, post))

		liked, err := repo.ToggleLike(ctx, post.ID, bob)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{bob}, liked.Likes)

		liked, err = repo.ToggleLike(ctx, post.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{alice, bob}, liked.Likes)

		unliked, err := repo.ToggleLike(ctx, post.ID, bob)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{alice}, unliked.Likes)

		_, err = repo.ToggleLike(ctx, primitive.NewObjectID(), bob)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ToggleLike concurrent users", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Popular", "Body", models.CategoryOther)
		require.NoError(t, repo.Create(ctx, post))

		const users = 20
		var wg sync.WaitGroup
		for i := 0; i < users; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ToggleLike(ctx, post.ID, primitive.NewObjectID())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, got.Likes, users)
	})

	t.Run("ToggleLike same user even number of times", func(t *testing.T) {
		repo := newRepo(t)
		post := newPost("Flicker", "Body", models.CategoryOther)
		require.NoError(t, repo.Create(ctx, post))

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ToggleLike(ctx, post.ID, bob)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Likes)
	})
}

func testUserRepository(t *testing.T, newRepo func(t *testing.T) UserRepository) {
	ctx := context.Background()

	t.Run("Create and lookups", func(t *testing.T) {
		repo := newRepo(t)
		user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.User{Username: "bob", Email: "bob@example.com"}))
		err := repo.Create(ctx, &models.User{Username: "bobby", Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("FindByIDs hides password hash", func(t *testing.T) {
		repo := newRepo(t)
		user := &models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "secret"}
		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.FindByIDs(ctx, []primitive.ObjectID{user.ID, primitive.NewObjectID()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "carol", found[user.ID].Username)
		assert.Empty(t, found[user.ID].PasswordHash)
	})
}
