package catalogRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"deskhive/database"
	"deskhive/models"
)

type mongoCatalogRepo struct {
	desks     *mongo.Collection
	slots     *mongo.Collection
	deskTypes *mongo.Collection
	locations *mongo.Collection
	pricing   *mongo.Collection
}

// NewMongoCatalogRepo returns a CatalogRepository backed by the master
// data collections.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		desks:     db.Collection("desks"),
		slots:     db.Collection("slot_master"),
		deskTypes: db.Collection("desk_types"),
		locations: db.Collection("locations"),
		pricing:   db.Collection("desk_pricing"),
	}
}

func (r *mongoCatalogRepo) ListDesks(ctx context.Context) ([]models.Desk, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.desks.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var desks []models.Desk
	if err := cursor.All(ctx, &desks); err != nil {
		return nil, err
	}
	return desks, nil
}

func (r *mongoCatalogRepo) GetDesk(ctx context.Context, deskID int) (*models.Desk, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var desk models.Desk
	err := r.desks.FindOne(ctx, bson.M{"id": deskID}).Decode(&desk)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &desk, nil
}

func (r *mongoCatalogRepo) ListSlots(ctx context.Context) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.slots.Find(ctx, bson.M{"is_active": bson.M{"$ne": false}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoCatalogRepo) GetSlot(ctx context.Context, slotID int) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	err := r.slots.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoCatalogRepo) ListDeskTypes(ctx context.Context) ([]models.DeskType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.deskTypes.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []models.DeskType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoCatalogRepo) ListLocations(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.locations.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *mongoCatalogRepo) ListPrices(ctx context.Context) ([]models.SlotPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.pricing.Find(ctx, bson.M{"is_active": bson.M{"$ne": false}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prices []models.SlotPrice
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *mongoCatalogRepo) GetPrice(ctx context.Context, deskTypeID, slotID int) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var price models.SlotPrice
	filter := bson.M{"desk_type_id": deskTypeID, "slot_id": slotID, "is_active": bson.M{"$ne": false}}
	err := r.pricing.FindOne(ctx, filter).Decode(&price)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return price.Price, nil
}
