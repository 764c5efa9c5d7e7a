package domain

import "time"

// Shipment is a carrier delivery addressed to a TNA. The tracking number is
// the natural key; status is the only mutable field.
type Shipment struct {
	ID             int64          `json:"id"`
	TrackingNumber string         `json:"trackingNumber"`
	TnaID          int64          `json:"tnaId"`
	CarrierID      int64          `json:"carrierId"`
	Status         ShipmentStatus `json:"status"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
