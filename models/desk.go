package models

// Desk represents a bookable desk in the catalog, denormalized with its
// building and location so availability payloads need no extra lookups.
type Desk struct {
	ID              int      `bson:"id" json:"desk_id"`
	Name            string   `bson:"name" json:"desk_name"`
	FloorNumber     int      `bson:"floor_number" json:"floor_number"`
	Capacity        int      `bson:"capacity" json:"capacity"`
	Description     string   `bson:"description" json:"description"`
	DeskTypeID      int      `bson:"desk_type_id" json:"desk_type_id"`
	LocationID      string   `bson:"location_id" json:"location_id"`
	BuildingName    string   `bson:"building_name" json:"building_name"`
	BuildingAddress string   `bson:"building_address" json:"building_address"`
	Amenities       []string `bson:"amenities" json:"amenities"`
	OperatingHours  string   `bson:"operating_hours" json:"operating_hours"`
	City            string   `bson:"city" json:"city"`
}

// DeskType is a catalog entry (e.g., "Standing", "Cabin", "Hot Desk").
type DeskType struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Location is a catalog entry for a city/site.
type Location struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// MasterData is the static catalog pushed to clients on page load.
type MasterData struct {
	DeskTypes []DeskType `json:"desk_types"`
	Locations []Location `json:"locations"`
	Slots     []Slot     `json:"slots"`
}
