package catalogRepo

import (
	"context"
	"errors"

	"deskhive/models"
)

// ErrNotFound is returned when a catalog entity does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogRepository serves the static master data: desks, slot templates,
// desk types, locations, and pricing. The core never mutates it;
// provisioning is an administrative concern outside this service.
type CatalogRepository interface {
	ListDesks(ctx context.Context) ([]models.Desk, error)
	GetDesk(ctx context.Context, deskID int) (*models.Desk, error)
	ListSlots(ctx context.Context) ([]models.Slot, error)
	GetSlot(ctx context.Context, slotID int) (*models.Slot, error)
	ListDeskTypes(ctx context.Context) ([]models.DeskType, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	ListPrices(ctx context.Context) ([]models.SlotPrice, error)
	GetPrice(ctx context.Context, deskTypeID, slotID int) (float64, error)
}
