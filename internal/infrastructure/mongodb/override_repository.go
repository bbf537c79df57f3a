package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

// PricingOverrideRepository stores brand-level pricing overrides
type PricingOverrideRepository struct {
	collection *mongo.Collection
}

func NewPricingOverrideRepository(db *mongo.Database) *PricingOverrideRepository {
	collection := db.Collection("pricing_overrides")

	repo := &PricingOverrideRepository{collection: collection}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *PricingOverrideRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "brandId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// GetActiveOverride returns the active override for a brand, or nil
// when the brand has none
func (r *PricingOverrideRepository) GetActiveOverride(ctx context.Context, brandID string) (*domain.PricingOverride, error) {
	var override domain.PricingOverride
	err := r.collection.FindOne(ctx, bson.M{"brandId": brandID, "active": true}).Decode(&override)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// Save creates or replaces a brand's override
func (r *PricingOverrideRepository) Save(ctx context.Context, override *domain.PricingOverride) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"brandId": override.BrandID}
	update := bson.M{
		"$set":         override,
		"$currentDate": bson.M{"updatedAt": true},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Deactivate turns a brand's override off without deleting its rates
func (r *PricingOverrideRepository) Deactivate(ctx context.Context, brandID string) error {
	update := bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"brandId": brandID}, update)
	return err
}

var _ domain.OverrideStore = (*PricingOverrideRepository)(nil)
