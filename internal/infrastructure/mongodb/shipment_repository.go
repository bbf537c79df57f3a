package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

// ShipmentRepository persists courier metadata onto shipment records.
// Shipment documents themselves are owned by the order management
// system; this engine only patches courier fields onto them.
type ShipmentRepository struct {
	collection *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{collection: db.Collection("shipments")}
}

// UpdateShipment patches courier fields onto a shipment record
func (r *ShipmentRepository) UpdateShipment(ctx context.Context, shipmentID string, patch domain.ShipmentPatch) error {
	set := bson.M{"fallbackMode": patch.FallbackMode}
	if patch.AwbNumber != "" {
		set["awbNumber"] = patch.AwbNumber
	}
	if patch.TrackingURL != "" {
		set["trackingUrl"] = patch.TrackingURL
	}
	if patch.LabelURL != "" {
		set["labelUrl"] = patch.LabelURL
	}

	update := bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"shipmentId": shipmentID}, update)
	return err
}

var _ domain.ShipmentStore = (*ShipmentRepository)(nil)

// PartyRepository resolves shipment participants from the platform's
// user directory
type PartyRepository struct {
	collection *mongo.Collection
}

func NewPartyRepository(db *mongo.Database) *PartyRepository {
	return &PartyRepository{collection: db.Collection("parties")}
}

// GetParty returns a party by ID, or nil when the party is unknown
func (r *PartyRepository) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	var party domain.Party
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&party)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &party, nil
}

var _ domain.PartyDirectory = (*PartyRepository)(nil)
