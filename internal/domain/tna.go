package domain

import "time"

// ActiveTnaLimit caps simultaneously ACTIVE TNAs per visitor.
const ActiveTnaLimit = 5

// TnaValidity is how long an issued TNA stays usable.
const TnaValidity = 3 * 30 * 24 * time.Hour // 3 months

// Tna is a masking address code owned by a visitor.
type Tna struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	VisitorID int64      `json:"visitorId"`
	Status    TnaStatus  `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Expired reports whether the TNA is past its expiry at the given instant.
// Expiry is computed at read time; there is no background sweep.
func (t Tna) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// Usable reports whether the TNA may be bound or resolved.
func (t Tna) Usable(now time.Time) bool {
	return t.Status == TnaStatusActive && !t.Expired(now)
}

// TnaSummary is a dashboard projection of a TNA and its current linkage.
type TnaSummary struct {
	Tna     Tna     `json:"tna"`
	Linked  bool    `json:"linked"`
	Address *string `json:"address,omitempty"`
}
