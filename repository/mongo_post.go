package repository

import (
	"context"
	"errors"
	"time"

	"quill/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPostRepository struct {
	posts *mongo.Collection
	now   func() time.Time
}

func NewMongoPostRepository(posts *mongo.Collection) *MongoPostRepository {
	return &MongoPostRepository{posts: posts, now: mongoNow}
}

// Mongo stores milliseconds; truncating here keeps returned values equal
// to what a later read sees.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	now := r.now()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	normalizePost(post)

	_, err := r.posts.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalizePost(&post)
	return &post, nil
}

func (r *MongoPostRepository) List(ctx context.Context, filter models.PostFilter, page models.Page) ([]models.Post, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	if !filter.AuthorID.IsZero() {
		query["author"] = filter.AuthorID
	}

	total, err := r.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Size))

	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	for i := range posts {
		normalizePost(&posts[i])
	}
	return posts, total, nil
}

func (r *MongoPostRepository) UpdateOwned(ctx context.Context, id, authorID primitive.ObjectID, fields models.PostFields) (*models.Post, error) {
	update := bson.M{"$set": bson.M{
		"title":      fields.Title,
		"content":    fields.Content,
		"category":   fields.Category,
		"tags":       nonNilTags(fields.Tags),
		"coverImage": fields.CoverImage,
		"updatedAt":  r.now(),
	}}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "author": authorID}, update, id)
}

func (r *MongoPostRepository) DeleteOwned(ctx context.Context, id, authorID primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id, "author": authorID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return r.missingOrForeign(ctx, id)
	}
	return nil
}

func (r *MongoPostRepository) PrependComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	update := bson.M{
		"$push": bson.M{"comments": bson.M{
			"$each":     bson.A{comment},
			"$position": 0,
		}},
		"$set": bson.M{"updatedAt": r.now()},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update, id)
}

// ToggleLike runs as one pipeline update: membership is tested and the
// array rewritten by the server against the same document version.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{userID, likes}}}},
				{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: likes},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
				}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{bson.A{userID}, likes}}}},
			}}}},
			{Key: "updatedAt", Value: r.now()},
		}}},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update, id)
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update interface{}, id primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.missingOrForeign(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	normalizePost(&post)
	return &post, nil
}

// missingOrForeign explains why a write filtered on _id matched nothing.
func (r *MongoPostRepository) missingOrForeign(ctx context.Context, id primitive.ObjectID) error {
	count, err := r.posts.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

// normalizePost replaces nil slices so clients always see arrays.
func normalizePost(post *models.Post) {
	post.Tags = nonNilTags(post.Tags)
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
