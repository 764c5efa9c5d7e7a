package usecase

import (
	"context"
	"fmt"

	"github.com/maskaddr/maskaddr/internal/domain"
)

// maxUnitsPerProperty bounds a single registration request.
const maxUnitsPerProperty = 500

// InventoryUsecase manages owner properties and their addressable units.
type InventoryUsecase struct {
	repo InventoryRepository
}

func NewInventoryUsecase(repo InventoryRepository) *InventoryUsecase {
	return &InventoryUsecase{repo: repo}
}

func (uc *InventoryUsecase) RegisterProperty(ctx context.Context, ownerID int64, baseAddress, city, region string, unitCount int) (domain.Property, error) {
	if baseAddress == "" {
		return domain.Property{}, fmt.Errorf("base address is required")
	}
	if unitCount < 1 || unitCount > maxUnitsPerProperty {
		return domain.Property{}, fmt.Errorf("unit count must be between 1 and %d", maxUnitsPerProperty)
	}
	return uc.repo.RegisterProperty(ctx, ownerID, baseAddress, city, region, unitCount)
}

func (uc *InventoryUsecase) Search(ctx context.Context, city, region string) ([]domain.UnitListing, error) {
	return uc.repo.Search(ctx, city, region)
}

func (uc *InventoryUsecase) ListProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return uc.repo.ListProperties(ctx, ownerID)
}
