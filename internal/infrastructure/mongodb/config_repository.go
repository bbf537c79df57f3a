package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

type configDocument struct {
	Key       string    `bson:"key"`
	Value     bson.Raw  `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// GlobalConfigRepository stores platform-wide configuration blobs keyed
// by name. Values are arbitrary documents returned to callers as JSON.
type GlobalConfigRepository struct {
	collection *mongo.Collection
}

func NewGlobalConfigRepository(db *mongo.Database) *GlobalConfigRepository {
	collection := db.Collection("global_configs")

	repo := &GlobalConfigRepository{collection: collection}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *GlobalConfigRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

// GetConfig returns the config value for a key as JSON, or nil when the
// key is absent
func (r *GlobalConfigRepository) GetConfig(ctx context.Context, key string) ([]byte, error) {
	var doc configDocument
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return bson.MarshalExtJSON(doc.Value, false, false)
}

// SetConfig creates or replaces a config value. The value must be
// bson-marshalable; typically a struct or bson.M.
func (r *GlobalConfigRepository) SetConfig(ctx context.Context, key string, value interface{}) error {
	raw, err := bson.Marshal(value)
	if err != nil {
		return err
	}

	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": bson.M{
		"key":       key,
		"value":     bson.Raw(raw),
		"updatedAt": time.Now(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"key": key}, update, opts)
	return err
}

var _ domain.ConfigStore = (*GlobalConfigRepository)(nil)
