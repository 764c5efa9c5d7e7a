package repository

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Upsert records a shipment status keyed by tracking number: unseen numbers
// insert, known numbers update status only. The TNA row is locked FOR
// UPDATE so a status change cannot interleave with an Unlink transit check.
// Every update appends an audit entry visible to the TNA's visitor.
func (r *ShipmentRepository) Upsert(ctx context.Context, carrierID int64, trackingNumber, tnaCode string, status domain.ShipmentStatus) (domain.Shipment, error) {
	var saved models.Shipment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tna models.Tna
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", tnaCode).
			Take(&tna).Error
		if err != nil {
			return classify(err, "tna")
		}

		// a tracking number belongs to one TNA for its lifetime; an update
		// naming a different code is a carrier mistake, not a re-route
		var existing models.Shipment
		err = tx.Where("tracking_number = ?", trackingNumber).Take(&existing).Error
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing.TnaID != tna.ID {
			return domain.ConflictError{Reason: domain.ConflictTrackingReassigned}
		}

		saved = models.Shipment{
			TrackingNumber: trackingNumber,
			TnaID:          tna.ID,
			CarrierID:      carrierID,
			Status:         string(status),
			MDate:          time.Now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tracking_number"}},
			DoUpdates: clause.Assignments(map[string]any{"status": string(status), "m_date": saved.MDate}),
		}).Create(&saved).Error
		if err != nil {
			return err
		}

		return appendAudit(tx, tna.VisitorID, domain.AuditActionShipmentUpdate, map[string]any{
			"trackingNumber": trackingNumber,
			"code":           tnaCode,
			"status":         string(status),
		})
	})
	if err != nil {
		return domain.Shipment{}, classify(err, "shipment")
	}
	return toShipment(saved), nil
}

// ListForTna returns the shipments addressed to the visitor's TNA, newest
// update first.
func (r *ShipmentRepository) ListForTna(ctx context.Context, visitorID int64, tnaCode string) ([]domain.Shipment, error) {
	var rows []models.Shipment
	err := r.db.WithContext(ctx).
		Joins("JOIN tnas ON tnas.id = shipments.tna_id").
		Where("tnas.code = ? AND tnas.visitor_id = ?", tnaCode, visitorID).
		Order("shipments.m_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "shipments")
	}

	shipments := make([]domain.Shipment, 0, len(rows))
	for _, row := range rows {
		shipments = append(shipments, toShipment(row))
	}
	return shipments, nil
}

func toShipment(row models.Shipment) domain.Shipment {
	return domain.Shipment{
		ID:             row.ID,
		TrackingNumber: row.TrackingNumber,
		TnaID:          row.TnaID,
		CarrierID:      row.CarrierID,
		Status:         domain.ShipmentStatus(row.Status),
		UpdatedAt:      row.MDate,
	}
}
