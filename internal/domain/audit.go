package domain

import "time"

// AuditEntry is an append-only record of a mutating action. The core writes
// these but never reads them back for its own decisions.
type AuditEntry struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Payment records a monetary transaction, e.g. the link fee.
type Payment struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	UserID    int64     `json:"userId"`
	Amount    int64     `json:"amount"` // cents
	Kind      string    `json:"kind"`   // LINK_FEE, SUBSCRIPTION
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentKindLinkFee tags the fee charged inside a Link transaction.
const PaymentKindLinkFee = "LINK_FEE"

// VisitorStats backs the visitor dashboard.
type VisitorStats struct {
	TotalTnas        int64 `json:"totalTnas"`
	ActiveOperations int64 `json:"activeOperations"`
}
