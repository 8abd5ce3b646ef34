package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories a post may be filed under.
const (
	CategoryTechnology = "Technology"
	CategoryLifestyle  = "Lifestyle"
	CategoryTravel     = "Travel"
	CategoryFood       = "Food"
	CategoryHealth     = "Health"
	CategoryOther      = "Other"
)

var Categories = []string{
	CategoryTechnology,
	CategoryLifestyle,
	CategoryTravel,
	CategoryFood,
	CategoryHealth,
	CategoryOther,
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type Post struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID   `bson:"author" json:"author"`
	Category   string               `bson:"category" json:"category"`
	Tags       []string             `bson:"tags" json:"tags"`
	CoverImage string               `bson:"coverImage" json:"coverImage"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments   []Comment            `bson:"comments" json:"comments"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID is in the post's likes.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type Comment struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Text   string             `bson:"text" json:"text"`
	Date   time.Time          `bson:"date" json:"date"`
}

// PostFields are the author-editable fields of a post.
type PostFields struct {
	Title      string
	Content    string
	Category   string
	Tags       []string
	CoverImage string
}

// PostFilter narrows a post listing. Zero values mean no filter.
type PostFilter struct {
	Category string
	Search   string
	AuthorID primitive.ObjectID
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Skip() int64 {
	return int64((p.Number - 1) * p.Size)
}
