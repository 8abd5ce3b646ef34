package service

import (
	"context"
	"strings"

	"quill/apperr"
	"quill/models"
	"quill/repository"

	"github.com/go-playground/validator/v10"
)

type ContactInput struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"notblank,max=200"`
	Message string `json:"message" validate:"notblank,max=5000"`
}

type ContactService struct {
	contacts repository.ContactRepository
	validate *validator.Validate
}

func NewContactService(contacts repository.ContactRepository, validate *validator.Validate) *ContactService {
	return &ContactService{contacts: contacts, validate: validate}
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	if err := s.validate.Struct(in); err != nil {
		return validationError(err)
	}

	submission := &models.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.contacts.Create(ctx, submission); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
