package usecase

import (
	"context"
	"fmt"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/tnacode"
)

// ShipmentUsecase records carrier status transitions. Status order is
// deliberately unenforced; the transit lock always derives from the
// current status set.
type ShipmentUsecase struct {
	repo ShipmentRepository
}

func NewShipmentUsecase(repo ShipmentRepository) *ShipmentUsecase {
	return &ShipmentUsecase{repo: repo}
}

func (uc *ShipmentUsecase) UpsertStatus(ctx context.Context, carrierID int64, trackingNumber, tnaCode, status string) (domain.Shipment, error) {
	if trackingNumber == "" {
		return domain.Shipment{}, fmt.Errorf("tracking number is required")
	}
	if !tnacode.Validate(tnaCode) {
		return domain.Shipment{}, domain.InvalidFormatError{Code: tnaCode}
	}
	if status == "" {
		status = string(domain.ShipmentStatusInTransit)
	}
	if !domain.ValidShipmentStatus(status) {
		return domain.Shipment{}, fmt.Errorf("unknown shipment status %q", status)
	}

	return uc.repo.Upsert(ctx, carrierID, trackingNumber, tnaCode, domain.ShipmentStatus(status))
}

func (uc *ShipmentUsecase) ListForTna(ctx context.Context, visitorID int64, tnaCode string) ([]domain.Shipment, error) {
	if !tnacode.Validate(tnaCode) {
		return nil, domain.InvalidFormatError{Code: tnaCode}
	}
	return uc.repo.ListForTna(ctx, visitorID, tnaCode)
}
