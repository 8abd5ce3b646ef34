package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"quill/apperr"
	"quill/models"
	"quill/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxCommentLen   = 2000
)

// PostInput is the body accepted when creating or replacing a post. It has
// no author field; the author always comes from the session.
type PostInput struct {
	Title      string   `json:"title" validate:"notblank,max=200"`
	Content    string   `json:"content" validate:"notblank"`
	Category   string   `json:"category" validate:"required,category"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=50"`
	CoverImage string   `json:"coverImage" validate:"max=2048"`
}

// fields trims the input and returns the values to store. Missing tags
// and cover image become empty values.
func (in PostInput) fields() models.PostFields {
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return models.PostFields{
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Category:   strings.TrimSpace(in.Category),
		Tags:       tags,
		CoverImage: strings.TrimSpace(in.CoverImage),
	}
}

// ListQuery holds the raw feed parameters. Zero values mean "not given".
type ListQuery struct {
	Category string
	Search   string
	Author   string
	Page     int
	Limit    int
}

type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, validate *validator.Validate) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		validate: validate,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of the feed, newest first.
func (s *PostService) List(ctx context.Context, q ListQuery) (*models.PostPage, error) {
	page := models.Page{Number: q.Page, Size: q.Limit}
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size < 1 {
		page.Size = DefaultPageSize
	}
	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}

	empty := &models.PostPage{Posts: []models.PostView{}, TotalPages: 0, CurrentPage: page.Number}

	filter := models.PostFilter{Search: strings.TrimSpace(q.Search)}
	if q.Category != "" {
		if !models.IsCategory(q.Category) {
			return empty, nil
		}
		filter.Category = q.Category
	}
	if q.Author != "" {
		authorID, err := primitive.ObjectIDFromHex(q.Author)
		if err != nil {
			return empty, nil
		}
		filter.AuthorID = authorID
	}

	// Past this page the offset would overflow; no store holds that many
	// posts, so only the count is needed.
	if page.Number > math.MaxInt/page.Size {
		_, total, err := s.posts.List(ctx, filter, models.Page{Number: 1, Size: 1})
		if err != nil {
			return nil, apperr.Storage(err)
		}
		empty.TotalPages = totalPages(total, page.Size)
		return empty, nil
	}

	posts, total, err := s.posts.List(ctx, filter, page)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	views, err := s.views(ctx, posts, false)
	if err != nil {
		return nil, err
	}

	return &models.PostPage{
		Posts:       views,
		TotalPages:  totalPages(total, page.Size),
		CurrentPage: page.Number,
	}, nil
}

// Get returns a post with its author and commenters projected.
func (s *PostService) Get(ctx context.Context, id string) (*models.PostView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, postError(err)
	}
	return s.view(ctx, post, true)
}

// Create stores a new post written by authorID.
func (s *PostService) Create(ctx context.Context, authorID primitive.ObjectID, in PostInput) (*models.PostView, error) {
	fields, err := s.validPostFields(in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      fields.Title,
		Content:    fields.Content,
		AuthorID:   authorID,
		Category:   fields.Category,
		Tags:       fields.Tags,
		CoverImage: fields.CoverImage,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Storage(err)
	}
	return s.view(ctx, post, false)
}

// Update replaces the editable fields of a post. Only its author may do
// so; anyone else gets Forbidden and nothing is written.
func (s *PostService) Update(ctx context.Context, callerID primitive.ObjectID, id string, in PostInput) (*models.PostView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, postError(err)
	}
	if existing.AuthorID != callerID {
		return nil, apperr.Forbidden("User not authorized")
	}

	fields, err := s.validPostFields(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.UpdateOwned(ctx, postID, callerID, fields)
	if err != nil {
		return nil, postError(err)
	}
	return s.view(ctx, updated, false)
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, callerID primitive.ObjectID, id string) error {
	postID, err := parsePostID(id)
	if err != nil {
		return err
	}

	if err := s.posts.DeleteOwned(ctx, postID, callerID); err != nil {
		return postError(err)
	}
	return nil
}

// AddComment puts a comment by userID at the front of the post's comments
// and returns the whole thread.
func (s *PostService) AddComment(ctx context.Context, userID primitive.ObjectID, id, text string) ([]models.CommentView, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("text is required")
	}
	if len([]rune(text)) > MaxCommentLen {
		return nil, apperr.Validation("text must be at most 2000 characters")
	}

	comment := models.Comment{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Text:   text,
		Date:   s.now(),
	}

	post, err := s.posts.PrependComment(ctx, postID, comment)
	if err != nil {
		return nil, postError(err)
	}

	view, err := s.view(ctx, post, false)
	if err != nil {
		return nil, err
	}
	return view.Comments, nil
}

// ToggleLike likes the post for userID, or unlikes it if already liked,
// and returns the resulting likes.
func (s *PostService) ToggleLike(ctx context.Context, userID primitive.ObjectID, id string) ([]primitive.ObjectID, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, postError(err)
	}
	return post.Likes, nil
}

func (s *PostService) validPostFields(in PostInput) (models.PostFields, error) {
	fields := in.fields()
	if err := s.validate.Struct(PostInput{
		Title:      fields.Title,
		Content:    fields.Content,
		Category:   fields.Category,
		Tags:       fields.Tags,
		CoverImage: fields.CoverImage,
	}); err != nil {
		return models.PostFields{}, validationError(err)
	}
	return fields, nil
}

func (s *PostService) view(ctx context.Context, post *models.Post, detail bool) (*models.PostView, error) {
	views, err := s.views(ctx, []models.Post{*post}, detail)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views projects posts with a single user lookup for all authors and
// commenters.
func (s *PostService) views(ctx context.Context, posts []models.Post, detail bool) ([]models.PostView, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for i := range posts {
		add(posts[i].AuthorID)
		for _, c := range posts[i].Comments {
			add(c.UserID)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	project := func(id primitive.ObjectID, withBio bool) models.AuthorView {
		user, ok := users[id]
		if !ok {
			return models.AuthorView{ID: id}
		}
		if withBio {
			return user.Detail()
		}
		return user.Summary()
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.CommentView, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentView{
				ID:   c.ID,
				User: project(c.UserID, false),
				Text: c.Text,
				Date: c.Date,
			})
		}

		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		likes := p.Likes
		if likes == nil {
			likes = []primitive.ObjectID{}
		}

		views = append(views, models.PostView{
			ID:         p.ID,
			Title:      p.Title,
			Content:    p.Content,
			Author:     project(p.AuthorID, detail),
			Category:   p.Category,
			Tags:       tags,
			CoverImage: p.CoverImage,
			Likes:      likes,
			Comments:   comments,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	return views, nil
}

func totalPages(total int64, size int) int {
	return int((total + int64(size) - 1) / int64(size))
}

// parsePostID treats a malformed id like an unknown one.
func parsePostID(id string) (primitive.ObjectID, error) {
	postID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Post not found")
	}
	return postID, nil
}

func postError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("Post not found")
	case errors.Is(err, repository.ErrNotOwner):
		return apperr.Forbidden("User not authorized")
	default:
		return apperr.Storage(err)
	}
}
