package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

type BindingRepository struct {
	db *gorm.DB
}

func NewBindingRepository(db *gorm.DB) *BindingRepository {
	return &BindingRepository{db: db}
}

// Link binds the visitor's TNA to an available unit. The whole step — unit
// availability flip, new binding row, link fee, audit entry — is one
// transaction; any failure rolls everything back. The partial unique
// indexes on bindings reject a concurrent double-book even if both
// transactions got past the availability read.
func (r *BindingRepository) Link(ctx context.Context, visitorID int64, tnaCode string, unitID int64) (domain.Binding, error) {
	var created models.Binding

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tna models.Tna
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND visitor_id = ?", tnaCode, visitorID).
			Take(&tna).Error
		if err != nil {
			return classify(err, "tna")
		}
		if !toTna(tna).Usable(time.Now()) {
			return domain.NotFoundError{Resource: "tna"}
		}

		var unit models.Unit
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", unitID).
			Take(&unit).Error
		if err != nil {
			return classify(err, "unit")
		}
		if !unit.IsAvailable {
			return domain.ConflictError{Reason: domain.ConflictUnitUnavailable}
		}

		var existing int64
		err = tx.Model(&models.Binding{}).
			Where("tna_id = ? AND is_active", tna.ID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ConflictError{Reason: domain.ConflictAlreadyLinked}
		}

		err = tx.Model(&models.Unit{}).
			Where("id = ?", unit.ID).
			Update("is_available", false).Error
		if err != nil {
			return err
		}

		created = models.Binding{
			TnaID:    tna.ID,
			UnitID:   unit.ID,
			IsActive: true,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		payment := models.Payment{
			Reference: uuid.NewString(),
			UserID:    visitorID,
			Amount:    domain.LinkFee,
			Kind:      domain.PaymentKindLinkFee,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return appendAudit(tx, visitorID, domain.AuditActionBind, map[string]any{
			"code":   tnaCode,
			"unitId": unit.ID,
			"fee":    domain.LinkFee,
		})
	})
	if err != nil {
		return domain.Binding{}, classify(err, "binding")
	}
	return toBinding(created), nil
}

// Unlink deactivates the TNA's active binding. The transit-lock check runs
// in the same transaction as the deactivation, and the TNA row lock
// serializes against shipment upserts so no status update can slip between
// check and write.
func (r *BindingRepository) Unlink(ctx context.Context, visitorID int64, tnaCode string) (domain.Binding, error) {
	var released models.Binding

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tna models.Tna
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND visitor_id = ?", tnaCode, visitorID).
			Take(&tna).Error
		if err != nil {
			return classify(err, "tna")
		}

		var blocking []string
		err = tx.Model(&models.Shipment{}).
			Where("tna_id = ? AND status IN ?", tna.ID,
				[]string{string(domain.ShipmentStatusPending), string(domain.ShipmentStatusInTransit)}).
			Order("tracking_number").
			Pluck("tracking_number", &blocking).Error
		if err != nil {
			return err
		}
		if len(blocking) > 0 {
			return domain.TransitLockedError{TrackingNumbers: blocking}
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tna_id = ? AND is_active", tna.ID).
			Take(&released).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// a second unlink is a client error, not a no-op
			return domain.ConflictError{Reason: domain.ConflictNotLinked}
		}
		if err != nil {
			return err
		}

		err = tx.Model(&models.Unit{}).
			Where("id = ?", released.UnitID).
			Update("is_available", true).Error
		if err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&models.Binding{}).
			Where("id = ?", released.ID).
			Updates(map[string]any{"is_active": false, "end_date": now}).Error
		if err != nil {
			return err
		}
		released.IsActive = false
		released.EndDate = &now

		return appendAudit(tx, visitorID, domain.AuditActionUnlink, map[string]any{
			"code":   tnaCode,
			"unitId": released.UnitID,
		})
	})
	if err != nil {
		return domain.Binding{}, classify(err, "binding")
	}
	return toBinding(released), nil
}

// ResolveAddress performs the single read joining an ACTIVE, unexpired TNA
// to its bound unit and property. gorm.ErrRecordNotFound surfaces as a
// NotFoundError, which the resolver turns into a return-to-sender result.
func (r *BindingRepository) ResolveAddress(ctx context.Context, tnaCode string) (domain.Resolution, error) {
	var row struct {
		BaseAddress string
		Identifier  string
		City        string
		Region      string
	}
	err := r.db.WithContext(ctx).Model(&models.Tna{}).
		Select("properties.base_address, units.identifier, properties.city, properties.region").
		Joins("JOIN bindings ON bindings.tna_id = tnas.id AND bindings.is_active").
		Joins("JOIN units ON units.id = bindings.unit_id").
		Joins("JOIN properties ON properties.id = units.property_id").
		Where("tnas.code = ? AND tnas.status = ? AND (tnas.expires_at IS NULL OR tnas.expires_at > ?)",
			tnaCode, string(domain.TnaStatusActive), time.Now()).
		Take(&row).Error
	if err != nil {
		return domain.Resolution{}, classify(err, "binding")
	}

	return domain.Resolution{
		TnaCode:     tnaCode,
		Deliverable: true,
		Address:     domain.ComposeAddress(row.BaseAddress, row.Identifier, row.City),
		Region:      row.Region,
	}, nil
}

func toBinding(row models.Binding) domain.Binding {
	return domain.Binding{
		ID:        row.ID,
		TnaID:     row.TnaID,
		UnitID:    row.UnitID,
		IsActive:  row.IsActive,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	}
}
