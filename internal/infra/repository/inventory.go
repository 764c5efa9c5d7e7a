package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// RegisterProperty creates the property and its UNIT-1..UNIT-N units in one
// transaction. A property without its units is never observable.
func (r *InventoryRepository) RegisterProperty(ctx context.Context, ownerID int64, baseAddress, city, region string, unitCount int) (domain.Property, error) {
	var created models.Property

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created = models.Property{
			OwnerID:     ownerID,
			BaseAddress: baseAddress,
			City:        city,
			Region:      region,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		for i := 1; i <= unitCount; i++ {
			unit := models.Unit{
				PropertyID:  created.ID,
				Identifier:  fmt.Sprintf("UNIT-%d", i),
				IsAvailable: true,
			}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
			created.Units = append(created.Units, unit)
		}

		return appendAudit(tx, ownerID, domain.AuditActionPropertyRegister, map[string]any{
			"propertyId": created.ID,
			"units":      unitCount,
		})
	})
	if err != nil {
		return domain.Property{}, classify(err, "property")
	}
	return toProperty(created), nil
}

// Search lists available units. City and region are case-insensitive
// substring filters; an empty filter matches everything.
func (r *InventoryRepository) Search(ctx context.Context, city, region string) ([]domain.UnitListing, error) {
	query := r.db.WithContext(ctx).Model(&models.Unit{}).
		Select("units.id AS unit_id, units.identifier, properties.base_address, properties.city, properties.region").
		Joins("JOIN properties ON properties.id = units.property_id").
		Where("units.is_available")
	if city != "" {
		query = query.Where("properties.city ILIKE ?", "%"+city+"%")
	}
	if region != "" {
		query = query.Where("properties.region ILIKE ?", "%"+region+"%")
	}

	var listings []domain.UnitListing
	if err := query.Order("units.id").Scan(&listings).Error; err != nil {
		return nil, classify(err, "units")
	}
	return listings, nil
}

// ListProperties returns the owner's properties with their units.
func (r *InventoryRepository) ListProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	var rows []models.Property
	err := r.db.WithContext(ctx).
		Preload("Units").
		Where("owner_id = ?", ownerID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "properties")
	}

	properties := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		properties = append(properties, toProperty(row))
	}
	return properties, nil
}

func toProperty(row models.Property) domain.Property {
	property := domain.Property{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		BaseAddress: row.BaseAddress,
		City:        row.City,
		Region:      row.Region,
		CreatedAt:   row.CDate,
	}
	for _, unit := range row.Units {
		property.Units = append(property.Units, toUnit(unit))
	}
	return property
}

func toUnit(row models.Unit) domain.Unit {
	return domain.Unit{
		ID:          row.ID,
		PropertyID:  row.PropertyID,
		Identifier:  row.Identifier,
		IsAvailable: row.IsAvailable,
	}
}
