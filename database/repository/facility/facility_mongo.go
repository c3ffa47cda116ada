package facilityRepo

import (
	"context"
	"fmt"
	"time"

	"parkly/database"
	"parkly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFacilityRepo implements FacilityRepository using MongoDB.
type MongoFacilityRepo struct {
	coll *mongo.Collection
}

// NewMongoFacilityRepo creates a new instance of FacilityRepository using MongoDB.
func NewMongoFacilityRepo() FacilityRepository {
	coll := database.DB().Collection("facilities")
	repo := &MongoFacilityRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create facility indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new facility document.
func (r *MongoFacilityRepo) Create(facility *models.Facility) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	facility.CreatedAt = now
	facility.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, facility); err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

// CreateMany inserts a batch of facility documents (bulk import).
func (r *MongoFacilityRepo) CreateMany(facilities []models.Facility) error {
	if len(facilities) == 0 {
		return nil
	}
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, 0, len(facilities))
	for i := range facilities {
		facilities[i].CreatedAt = now
		facilities[i].UpdatedAt = now
		docs = append(docs, facilities[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to import facilities: %w", err)
	}
	return nil
}

// GetByID retrieves a facility by its unique ID. Returns nil when the
// facility does not exist.
func (r *MongoFacilityRepo) GetByID(id string) (*models.Facility, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var facility models.Facility
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&facility); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch facility with id %s: %w", id, err)
	}
	return &facility, nil
}

// GetAll retrieves all facilities.
func (r *MongoFacilityRepo) GetAll() ([]models.Facility, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve facilities: %w", err)
	}
	defer cursor.Close(ctx)

	var facilities []models.Facility
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("failed to decode facilities: %w", err)
	}
	return facilities, nil
}

// NearestAvailable runs the candidate-generator pipeline: $geoNear over
// open facilities with spare capacity, a $lookup counting free spaces of
// the requested type, and a deterministic distance/id sort.
func (r *MongoFacilityRepo) NearestAvailable(point models.GeoPoint, maxDistanceMeters float64, spaceType string, limit int) ([]models.FacilityCandidate, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		// $geoNear must come first to filter+sort by distance.
		bson.D{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: point.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: maxDistanceMeters},
			{Key: "query", Value: bson.M{
				"status":            models.FacilityOpen,
				"capacityAvailable": bson.M{"$gt": 0},
			}},
		}}},
		// Count free spaces of the requested type per facility.
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "spaces"},
			{Key: "let", Value: bson.D{{Key: "fid", Value: "$id"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$match", Value: bson.M{
					"$expr":  bson.M{"$eq": bson.A{"$facilityId", "$$fid"}},
					"type":   spaceType,
					"status": models.SpaceFree,
				}}},
			}},
			{Key: "as", Value: "freeMatches"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"freeSpaces": bson.M{"$size": "$freeMatches"},
		}}},
		bson.D{{Key: "$match", Value: bson.M{"freeSpaces": bson.M{"$gt": 0}}}},
		bson.D{{Key: "$project", Value: bson.M{"freeMatches": 0}}},
		// Nearest first; id breaks distance ties so ordering is stable.
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "distance", Value: 1},
			{Key: "id", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("nearest-available query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var candidates []models.FacilityCandidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode facility candidates: %w", err)
	}
	return candidates, nil
}
