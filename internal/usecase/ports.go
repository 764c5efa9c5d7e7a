package usecase

import (
	"context"

	"github.com/maskaddr/maskaddr/internal/domain"
)

// TnaRepository defines persistence for the TNA registry.
type TnaRepository interface {
	Issue(ctx context.Context, visitorID int64) (domain.Tna, error)
	ListActive(ctx context.Context, visitorID int64) ([]domain.Tna, error)
	Summarize(ctx context.Context, visitorID int64) ([]domain.TnaSummary, error)
	Revoke(ctx context.Context, visitorID int64, code string) error
	VisitorStats(ctx context.Context, visitorID int64) (domain.VisitorStats, error)
}

// InventoryRepository defines persistence for properties and units.
type InventoryRepository interface {
	RegisterProperty(ctx context.Context, ownerID int64, baseAddress, city, region string, unitCount int) (domain.Property, error)
	Search(ctx context.Context, city, region string) ([]domain.UnitListing, error)
	ListProperties(ctx context.Context, ownerID int64) ([]domain.Property, error)
}

// BindingRepository defines the transactional link/unlink/resolve storage
// operations.
type BindingRepository interface {
	Link(ctx context.Context, visitorID int64, tnaCode string, unitID int64) (domain.Binding, error)
	Unlink(ctx context.Context, visitorID int64, tnaCode string) (domain.Binding, error)
	ResolveAddress(ctx context.Context, tnaCode string) (domain.Resolution, error)
}

// ShipmentRepository defines shipment status persistence.
type ShipmentRepository interface {
	Upsert(ctx context.Context, carrierID int64, trackingNumber, tnaCode string, status domain.ShipmentStatus) (domain.Shipment, error)
	ListForTna(ctx context.Context, visitorID int64, tnaCode string) ([]domain.Shipment, error)
}

// AuditRepository exposes the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, userID int64, action string, metadata map[string]any) error
	ListForUser(ctx context.Context, userID int64) ([]domain.AuditEntry, error)
}

// ResolutionCache is the short-TTL read cache in front of the resolver.
// A nil result with nil error is a cache miss.
type ResolutionCache interface {
	Get(ctx context.Context, tnaCode string) (*domain.Resolution, error)
	Set(ctx context.Context, resolution domain.Resolution) error
	Invalidate(ctx context.Context, tnaCode string) error
}
