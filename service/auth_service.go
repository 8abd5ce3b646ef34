package service

import (
	"context"
	"errors"
	"strings"

	"quill/apperr"
	"quill/models"
	"quill/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

const invalidCredentialsMessage = "Invalid credentials"

type AuthService struct {
	users    repository.UserRepository
	validate *validator.Validate
	cost     int
}

func NewAuthService(users repository.UserRepository, validate *validator.Validate) *AuthService {
	return &AuthService{users: users, validate: validate, cost: bcrypt.DefaultCost}
}

// Register creates an account. Emails are stored lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// Login checks the credentials. Unknown emails and wrong passwords fail
// the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.KindInvalidCredentials, invalidCredentialsMessage)
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperr.New(apperr.KindInvalidCredentials, invalidCredentialsMessage)
	}
	return user, nil
}

// Me loads the account behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}
