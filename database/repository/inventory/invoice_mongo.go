package inventoryRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"deskhive/models"
)

func (r *mongoInventoryRepo) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.invoices.InsertOne(ctx, inv)
	return err
}

func (r *mongoInventoryRepo) FindInvoiceByBookingID(ctx context.Context, bookingID string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var inv models.Invoice
	err := r.invoices.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
