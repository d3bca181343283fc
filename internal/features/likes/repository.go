package likes

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
)

// Repository handles database interactions for the likes feature
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates repository and ensures indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("likes")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			// one like per user and marker
			Keys: bson.D{
				{Key: "markerId", Value: 1},
				{Key: "userId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "markerId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	})

	return &Repository{
		collection: collection,
	}
}

// CreateLike stores a like. It reports false when the like already existed.
func (r *Repository) CreateLike(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error) {
	like := &Like{
		ID:        primitive.NewObjectID(),
		MarkerID:  markerID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert like: %w", err)
	}
	return true, nil
}

// DeleteLike removes a like. It reports false when there was nothing to remove.
func (r *Repository) DeleteLike(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"markerId": markerID,
		"userId":   userID,
	})
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *Repository) HasLiked(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"markerId": markerID,
		"userId":   userID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count like: %w", err)
	}
	return count > 0, nil
}

// GetLikers returns the likes of a marker, newest first.
func (r *Repository) GetLikers(ctx context.Context, markerID primitive.ObjectID, page pagination.Request) ([]Like, int64, error) {
	filter := bson.M{"markerId": markerID}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find likers: %w", err)
	}
	defer cursor.Close(ctx)

	likes := []Like{}
	if err = cursor.All(ctx, &likes); err != nil {
		return nil, 0, fmt.Errorf("decode likers: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count likers: %w", err)
	}

	return likes, total, nil
}

// LikedMarkers batch checks which of the markers the user liked.
func (r *Repository) LikedMarkers(ctx context.Context, userID primitive.ObjectID, markerIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	result := make(map[primitive.ObjectID]bool)
	if len(markerIDs) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		"userId":   userID,
		"markerId": bson.M{"$in": markerIDs},
	}, options.Find().SetProjection(bson.M{"markerId": 1}))
	if err != nil {
		return nil, fmt.Errorf("find liked markers: %w", err)
	}
	defer cursor.Close(ctx)

	var likes []Like
	if err = cursor.All(ctx, &likes); err != nil {
		return nil, fmt.Errorf("decode liked markers: %w", err)
	}

	for _, like := range likes {
		result[like.MarkerID] = true
	}
	return result, nil
}

// DeleteByMarker removes every like of a marker and returns how many there were.
func (r *Repository) DeleteByMarker(ctx context.Context, markerID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"markerId": markerID})
	if err != nil {
		return 0, fmt.Errorf("delete marker likes: %w", err)
	}
	return result.DeletedCount, nil
}
