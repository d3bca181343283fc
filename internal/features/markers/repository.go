package markers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// Repository handles database interactions for markers
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates repository and ensures indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("markers")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, marker *Marker) error {
	now := time.Now().UTC()
	if marker.ID.IsZero() {
		marker.ID = primitive.NewObjectID()
	}
	marker.CreatedAt = now
	marker.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, marker); err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Marker, error) {
	var marker Marker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&marker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &marker, nil
}

// Find returns one page of markers matching filter, newest first, and the total match count.
func (r *Repository) Find(ctx context.Context, filter bson.M, page pagination.Request) ([]Marker, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	markers := []Marker{}
	if err := cursor.All(ctx, &markers); err != nil {
		return nil, 0, err
	}
	return markers, total, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementLikeCount increments or decrements a marker's like count. A missing
// marker yields ErrNotFound.
func (r *Repository) IncrementLikeCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"likeCount": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("marker %s: %w", id.Hex(), apperrors.ErrNotFound)
	}

	if delta < 0 {
		_, _ = r.collection.UpdateOne(ctx,
			bson.M{"_id": id, "likeCount": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"likeCount": 0}},
		)
	}
	return nil
}
