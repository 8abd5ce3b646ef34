package repository

import (
	"context"

	"quill/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoContactRepository struct {
	contacts *mongo.Collection
}

func NewMongoContactRepository(contacts *mongo.Collection) *MongoContactRepository {
	return &MongoContactRepository{contacts: contacts}
}

func (r *MongoContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = mongoNow()

	_, err := r.contacts.InsertOne(ctx, submission)
	return err
}
