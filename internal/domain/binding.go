package domain

import (
	"fmt"
	"time"
)

// LinkFee is charged when a TNA is bound to a unit.
const LinkFee = 500 // cents

// Binding links one TNA to one unit. Rows are never hard-deleted; unlinking
// deactivates the row so the link history stays auditable.
type Binding struct {
	ID        int64      `json:"id"`
	TnaID     int64      `json:"tnaId"`
	UnitID    int64      `json:"unitId"`
	IsActive  bool       `json:"isActive"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// ReturnToSender is the instruction carriers receive for unresolvable TNAs.
const ReturnToSender = "RETURN TO SENDER"

// Resolution is the carrier-facing outcome of resolving a TNA code. An
// unresolvable code is a normal outcome, not an error.
type Resolution struct {
	TnaCode     string `json:"tnaCode"`
	Deliverable bool   `json:"deliverable"`
	Address     string `json:"address,omitempty"`
	Region      string `json:"region,omitempty"`
	Instruction string `json:"instruction,omitempty"`
}

// ComposeAddress builds the delivery address string for a resolved unit.
func ComposeAddress(baseAddress, unitIdentifier, city string) string {
	return fmt.Sprintf("%s, %s, %s", baseAddress, unitIdentifier, city)
}
