package tariffRepo

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

// MongoTariffRepo implements TariffRepository using MongoDB.
type MongoTariffRepo struct {
	coll *mongo.Collection
}

// NewMongoTariffRepo creates a new instance of TariffRepository using MongoDB.
func NewMongoTariffRepo() TariffRepository {
	coll := database.DB().Collection("tariffs")
	repo := &MongoTariffRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create tariff indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTariffRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Compound index serving the resolution query.
		{Keys: bson.D{
			{Key: "facilityId", Value: 1},
			{Key: "spaceType", Value: 1},
			{Key: "effectiveFrom", Value: -1},
		}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new tariff record.
func (r *MongoTariffRepo) Create(record *models.TariffRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create tariff record: %w", err)
	}
	return nil
}

// GetByID retrieves a tariff record by its unique ID. Returns nil when absent.
func (r *MongoTariffRepo) GetByID(id string) (*models.TariffRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var record models.TariffRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tariff record with id %s: %w", id, err)
	}
	return &record, nil
}

// List retrieves tariff records, optionally filtered by facility,
// space type and whether they are currently effective.
func (r *MongoTariffRepo) List(facilityID, spaceType string, activeOnly bool) ([]models.TariffRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if facilityID != "" {
		filter["facilityId"] = facilityID
	}
	if spaceType != "" {
		filter["spaceType"] = spaceType
	}
	if activeOnly {
		now := time.Now()
		filter["effectiveFrom"] = bson.M{"$lte": now}
		filter["$or"] = bson.A{
			bson.M{"effectiveTo": nil},
			bson.M{"effectiveTo": bson.M{"$gt": now}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "effectiveFrom", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tariff records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.TariffRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tariff records: %w", err)
	}
	return records, nil
}

// Resolve finds the record covering asOf. The descending effectiveFrom
// sort makes the overlap tie-break explicit rather than depending on
// store ordering.
func (r *MongoTariffRepo) Resolve(facilityID, spaceType string, asOf time.Time) (*models.TariffRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"facilityId":    facilityID,
		"spaceType":     spaceType,
		"effectiveFrom": bson.M{"$lte": asOf},
		"$or": bson.A{
			bson.M{"effectiveTo": nil},
			bson.M{"effectiveTo": bson.M{"$gt": asOf}},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effectiveFrom", Value: -1}})

	var record models.TariffRecord
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve tariff: %w", err)
	}
	return &record, nil
}
