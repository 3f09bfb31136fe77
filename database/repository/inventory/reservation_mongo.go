package inventoryRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deskhive/database"
	"deskhive/models"
)

type mongoInventoryRepo struct {
	coll     *mongo.Collection
	invoices *mongo.Collection
}

// NewMongoInventoryRepo returns an InventoryRepository backed by the
// booking_transactions and invoices collections.
func NewMongoInventoryRepo() InventoryRepository {
	db := database.DB()
	return &mongoInventoryRepo{
		coll:     db.Collection("booking_transactions"),
		invoices: db.Collection("invoices"),
	}
}

func (r *mongoInventoryRepo) Insert(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, res)
	return err
}

func (r *mongoInventoryRepo) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoInventoryRepo) FindLiveByKey(ctx context.Context, key models.SlotInstanceKey, now time.Time) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"desk_id":      key.DeskID,
		"slot_id":      key.SlotID,
		"booking_date": key.Date,
		"$or": bson.A{
			bson.M{"status": models.StatusBooked},
			bson.M{"status": models.StatusHeld, "expires_at": bson.M{"$gt": now}},
		},
	}

	var res models.Reservation
	err := r.coll.FindOne(ctx, filter).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoInventoryRepo) Promote(ctx context.Context, id string, confirmedAt time.Time, details *models.BookingDetails) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusHeld}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusBooked,
		"confirmed_at": confirmedAt,
		"details":      details,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res models.Reservation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoInventoryRepo) DeleteHeld(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "status": models.StatusHeld})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoInventoryRepo) ListExpiredHolds(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"status": models.StatusHeld, "expires_at": bson.M{"$lte": now}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var holds []models.Reservation
	if err := cursor.All(ctx, &holds); err != nil {
		return nil, err
	}
	return holds, nil
}

func (r *mongoInventoryRepo) ListForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"booking_date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.Reservation
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *mongoInventoryRepo) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": bson.A{models.StatusBooked, models.StatusCancelled}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "confirmed_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.Reservation
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *mongoInventoryRepo) CancelBooking(ctx context.Context, id, userID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "user_id": userID, "status": models.StatusBooked}
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res models.Reservation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
