package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/maskaddr/maskaddr/internal/domain"
)

type mockShipmentRepo struct {
	lastStatus domain.ShipmentStatus
	upsertErr  error
}

func (m *mockShipmentRepo) Upsert(ctx context.Context, carrierID int64, trackingNumber, tnaCode string, status domain.ShipmentStatus) (domain.Shipment, error) {
	if m.upsertErr != nil {
		return domain.Shipment{}, m.upsertErr
	}
	m.lastStatus = status
	return domain.Shipment{TrackingNumber: trackingNumber, CarrierID: carrierID, Status: status}, nil
}

func (m *mockShipmentRepo) ListForTna(ctx context.Context, visitorID int64, tnaCode string) ([]domain.Shipment, error) {
	return nil, nil
}

func TestUpsertStatusDefaultsToInTransit(t *testing.T) {
	repo := &mockShipmentRepo{}
	uc := NewShipmentUsecase(repo)

	shipment, err := uc.UpsertStatus(context.Background(), 3, "TRK-1", "TNA-WXYZ1000", "")
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if shipment.Status != domain.ShipmentStatusInTransit {
		t.Fatalf("expected IN_TRANSIT default, got %s", shipment.Status)
	}
	if !shipment.Status.InTransit() {
		t.Fatal("IN_TRANSIT must engage the transit lock")
	}
}

func TestUpsertStatusRejectsUnknownStatus(t *testing.T) {
	uc := NewShipmentUsecase(&mockShipmentRepo{})

	_, err := uc.UpsertStatus(context.Background(), 3, "TRK-1", "TNA-WXYZ1000", "LOST")
	if err == nil {
		t.Fatal("expected an error for unknown status")
	}
}

func TestUpsertStatusRequiresTrackingNumber(t *testing.T) {
	uc := NewShipmentUsecase(&mockShipmentRepo{})

	_, err := uc.UpsertStatus(context.Background(), 3, "", "TNA-WXYZ1000", "PENDING")
	if err == nil {
		t.Fatal("expected an error for missing tracking number")
	}
}

func TestUpsertStatusRejectsMalformedCode(t *testing.T) {
	uc := NewShipmentUsecase(&mockShipmentRepo{})

	_, err := uc.UpsertStatus(context.Background(), 3, "TRK-1", "WXYZ1000", "PENDING")
	if !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("expected InvalidFormatError, got %v", err)
	}
}

func TestUpsertStatusUnknownTnaSurfaces(t *testing.T) {
	repo := &mockShipmentRepo{upsertErr: domain.NotFoundError{Resource: "tna"}}
	uc := NewShipmentUsecase(repo)

	_, err := uc.UpsertStatus(context.Background(), 3, "TRK-1", "TNA-WXYZ1000", "PENDING")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeliveredDoesNotEngageLock(t *testing.T) {
	if domain.ShipmentStatusDelivered.InTransit() {
		t.Fatal("DELIVERED must release the transit lock")
	}
	if !domain.ShipmentStatusPending.InTransit() {
		t.Fatal("PENDING must engage the transit lock")
	}
}
