package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// appendAudit writes an entry using the given handle, so repositories can
// append inside their own transactions.
func appendAudit(tx *gorm.DB, userID int64, action string, metadata map[string]any) error {
	encoded := "{}"
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		encoded = string(raw)
	}
	entry := models.AuditEntry{
		UserID:   userID,
		Action:   action,
		Metadata: encoded,
	}
	return tx.Create(&entry).Error
}

func (r *AuditRepository) Append(ctx context.Context, userID int64, action string, metadata map[string]any) error {
	return classify(appendAudit(r.db.WithContext(ctx), userID, action, metadata), "audit entry")
}

// ListForUser returns the caller's audit trail, newest first.
func (r *AuditRepository) ListForUser(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	var rows []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cdate DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "audit entries")
	}

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toAuditEntry(row))
	}
	return entries, nil
}

func toAuditEntry(row models.AuditEntry) domain.AuditEntry {
	var metadata map[string]any
	// stored metadata is always valid JSON; fall back to empty on damage
	_ = json.Unmarshal([]byte(row.Metadata), &metadata)
	return domain.AuditEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Action:    row.Action,
		Metadata:  metadata,
		CreatedAt: row.CDate,
	}
}
