package spaceRepo

import (
	"context"
	"fmt"
	"time"

	"parkly/database"
	"parkly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSpaceRepo implements SpaceRepository using MongoDB.
type MongoSpaceRepo struct {
	coll *mongo.Collection
}

// NewMongoSpaceRepo creates a new instance of SpaceRepository using MongoDB.
func NewMongoSpaceRepo() SpaceRepository {
	coll := database.DB().Collection("spaces")
	repo := &MongoSpaceRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create space indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSpaceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Labels are unique within a facility, not globally.
		{
			Keys:    bson.D{{Key: "facilityId", Value: 1}, {Key: "label", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "facilityId", Value: 1}, {Key: "type", Value: 1}, {Key: "status", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new space document.
func (r *MongoSpaceRepo) Create(space *models.Space) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	space.CreatedAt = now
	space.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, space); err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}
	return nil
}

// GetByID retrieves a space by its unique ID. Returns nil when absent.
func (r *MongoSpaceRepo) GetByID(id string) (*models.Space, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var space models.Space
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&space); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch space with id %s: %w", id, err)
	}
	return &space, nil
}

// ListByFacility retrieves all spaces belonging to a facility.
func (r *MongoSpaceRepo) ListByFacility(facilityID string) ([]models.Space, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"facilityId": facilityID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []models.Space
	if err := cursor.All(ctx, &spaces); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}
	return spaces, nil
}

// FreeSpace returns one free space of the given type, or nil.
func (r *MongoSpaceRepo) FreeSpace(facilityID, spaceType string) (*models.Space, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"facilityId": facilityID,
		"type":       spaceType,
		"status":     models.SpaceFree,
	}
	// Lowest label first, so the pick is deterministic.
	opts := options.FindOne().SetSort(bson.D{{Key: "label", Value: 1}})

	var space models.Space
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&space); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find free space: %w", err)
	}
	return &space, nil
}

// SetStatus performs the compare-and-swap transition. The filter carries
// the expected status, so a lost race shows up as MatchedCount == 0.
func (r *MongoSpaceRepo) SetStatus(spaceID, expected, next string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": spaceID, "status": expected}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update space status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
