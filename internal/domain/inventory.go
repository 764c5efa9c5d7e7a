package domain

import "time"

// Property is an owner's base address holding addressable units.
type Property struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	BaseAddress string    `json:"baseAddress"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	CreatedAt   time.Time `json:"createdAt"`
	Units       []Unit    `json:"units,omitempty"`
}

// Unit is an individually addressable sub-location within a property.
type Unit struct {
	ID          int64  `json:"id"`
	PropertyID  int64  `json:"propertyId"`
	Identifier  string `json:"identifier"` // UNIT-1 .. UNIT-N
	IsAvailable bool   `json:"isAvailable"`
}

// UnitListing is the search projection of an available unit.
type UnitListing struct {
	UnitID      int64  `json:"unitId"`
	Identifier  string `json:"identifier"`
	BaseAddress string `json:"baseAddress"`
	City        string `json:"city"`
	Region      string `json:"region"`
}
