package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quill/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPostRepository keeps posts in a map. Every mutation happens under
// the write lock, so read-modify-write sequences cannot interleave.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.Post
	now   func() time.Time
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[primitive.ObjectID]*models.Post),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	normalizePost(post)

	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *MemoryPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	return clonePost(post), nil
}

func (s *MemoryPostRepository) List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []*models.Post
	for _, post := range s.posts {
		if filter.Category != "" && post.Category != filter.Category {
			continue
		}
		if !filter.AuthorID.IsZero() && post.AuthorID != filter.AuthorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(post.Title), search) &&
			!strings.Contains(strings.ToLower(post.Content), search) {
			continue
		}
		matched = append(matched, post)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	total := int64(len(matched))

	start := int(page.Skip())
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]models.Post, 0, end-start)
	for _, post := range matched[start:end] {
		result = append(result, *clonePost(post))
	}
	return result, total, nil
}

func (s *MemoryPostRepository) UpdateOwned(ctx context.Context, id, authorID primitive.ObjectID, fields models.PostFields) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	if post.AuthorID != authorID {
		return nil, ErrNotOwner
	}

	post.Title = fields.Title
	post.Content = fields.Content
	post.Category = fields.Category
	post.Tags = append([]string{}, fields.Tags...)
	post.CoverImage = fields.CoverImage
	post.UpdatedAt = s.now()

	return clonePost(post), nil
}

func (s *MemoryPostRepository) DeleteOwned(ctx context.Context, id, authorID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return ErrNotFound
	}
	if post.AuthorID != authorID {
		return ErrNotOwner
	}

	delete(s.posts, id)
	return nil
}

func (s *MemoryPostRepository) PrependComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}

	post.Comments = append([]models.Comment{comment}, post.Comments...)
	post.UpdatedAt = s.now()

	return clonePost(post), nil
}

func (s *MemoryPostRepository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}

	if post.LikedBy(userID) {
		likes := make([]primitive.ObjectID, 0, len(post.Likes))
		for _, like := range post.Likes {
			if like != userID {
				likes = append(likes, like)
			}
		}
		post.Likes = likes
	} else {
		post.Likes = append([]primitive.ObjectID{userID}, post.Likes...)
	}
	post.UpdatedAt = s.now()

	return clonePost(post), nil
}

func clonePost(post *models.Post) *models.Post {
	cp := *post
	cp.Tags = append([]string{}, post.Tags...)
	cp.Likes = append([]primitive.ObjectID{}, post.Likes...)
	cp.Comments = append([]models.Comment{}, post.Comments...)
	return &cp
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return ErrDuplicate
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, exists := s.users[id]; exists {
			cp := *user
			cp.PasswordHash = ""
			found[id] = &cp
		}
	}
	return found, nil
}

type MemoryContactRepository struct {
	mu          sync.Mutex
	submissions []models.ContactSubmission
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{}
}

func (s *MemoryContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = time.Now().UTC()
	s.submissions = append(s.submissions, *submission)
	return nil
}

// Submissions returns a copy of everything stored so far.
func (s *MemoryContactRepository) Submissions() []models.ContactSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.ContactSubmission{}, s.submissions...)
}
