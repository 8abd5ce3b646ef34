package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
	Bio            string             `bson:"bio" json:"bio"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AuthorView is the public projection of a user. Bio is only filled in
// where the detailed projection is asked for.
type AuthorView struct {
	ID             primitive.ObjectID `json:"_id"`
	Username       string             `json:"username"`
	ProfilePicture string             `json:"profilePicture"`
	Bio            *string            `json:"bio,omitempty"`
}

// Summary is the projection used in listings and comment threads.
func (u *User) Summary() AuthorView {
	return AuthorView{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

// Detail adds the bio to Summary.
func (u *User) Detail() AuthorView {
	v := u.Summary()
	bio := u.Bio
	v.Bio = &bio
	return v
}

// AccountView is what a user sees about themself.
type AccountView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio"`
}

func (u *User) Account() AccountView {
	return AccountView{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}
