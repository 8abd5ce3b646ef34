package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostView is a post with its author, and optionally its commenters,
// replaced by public projections.
type PostView struct {
	ID         primitive.ObjectID   `json:"_id"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	Author     AuthorView           `json:"author"`
	Category   string               `json:"category"`
	Tags       []string             `json:"tags"`
	CoverImage string               `json:"coverImage"`
	Likes      []primitive.ObjectID `json:"likes"`
	Comments   []CommentView        `json:"comments"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

type CommentView struct {
	ID   primitive.ObjectID `json:"_id"`
	User AuthorView         `json:"user"`
	Text string             `json:"text"`
	Date time.Time          `json:"date"`
}

// PostPage is one page of the public feed.
type PostPage struct {
	Posts       []PostView `json:"posts"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
}
