package usecase

import (
	"context"
	"testing"

	"github.com/maskaddr/maskaddr/internal/domain"
)

type mockInventoryRepo struct {
	registered *domain.Property
}

func (m *mockInventoryRepo) RegisterProperty(ctx context.Context, ownerID int64, baseAddress, city, region string, unitCount int) (domain.Property, error) {
	property := domain.Property{ID: 1, OwnerID: ownerID, BaseAddress: baseAddress, City: city, Region: region}
	for i := 1; i <= unitCount; i++ {
		property.Units = append(property.Units, domain.Unit{ID: int64(i), PropertyID: 1, IsAvailable: true})
	}
	m.registered = &property
	return property, nil
}

func (m *mockInventoryRepo) Search(ctx context.Context, city, region string) ([]domain.UnitListing, error) {
	return nil, nil
}

func (m *mockInventoryRepo) ListProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return nil, nil
}

func TestRegisterPropertyCreatesUnits(t *testing.T) {
	repo := &mockInventoryRepo{}
	uc := NewInventoryUsecase(repo)

	property, err := uc.RegisterProperty(context.Background(), 2, "12 King Rd", "Riyadh", "Central", 2)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(property.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(property.Units))
	}
}

func TestRegisterPropertyRequiresBaseAddress(t *testing.T) {
	repo := &mockInventoryRepo{}
	uc := NewInventoryUsecase(repo)

	_, err := uc.RegisterProperty(context.Background(), 2, "", "Riyadh", "Central", 2)
	if err == nil {
		t.Fatal("expected an error for missing base address")
	}
	if repo.registered != nil {
		t.Fatal("repository must not be touched on invalid input")
	}
}

func TestRegisterPropertyBoundsUnitCount(t *testing.T) {
	repo := &mockInventoryRepo{}
	uc := NewInventoryUsecase(repo)

	for _, count := range []int{0, -1, maxUnitsPerProperty + 1} {
		if _, err := uc.RegisterProperty(context.Background(), 2, "12 King Rd", "Riyadh", "Central", count); err == nil {
			t.Errorf("expected an error for unit count %d", count)
		}
	}
}
