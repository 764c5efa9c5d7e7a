package repository

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
	"github.com/maskaddr/maskaddr/internal/tnacode"
)

// issueAttempts bounds code regeneration when the unique index on tnas.code
// rejects a collision.
const issueAttempts = 5

type TnaRepository struct {
	db *gorm.DB
}

func NewTnaRepository(db *gorm.DB) *TnaRepository {
	return &TnaRepository{db: db}
}

// Issue creates a new ACTIVE TNA for the visitor, enforcing the per-visitor
// cap inside one transaction. The visitor's persons row is locked FOR UPDATE
// as the single serialization point: racing issues for the same visitor
// queue on that lock and each one counts after the previous insert
// committed, including the visitor's very first issue.
func (r *TnaRepository) Issue(ctx context.Context, visitorID int64) (domain.Tna, error) {
	var lastErr error
	for attempt := 0; attempt < issueAttempts; attempt++ {
		code := tnacode.Generate()
		tna, err := r.issueWithCode(ctx, visitorID, code)
		if err == nil {
			return tna, nil
		}
		if stderrors.Is(err, domain.ConflictError{Reason: domain.ConflictDuplicate}) {
			// code collision, regenerate and retry the whole transaction
			lastErr = err
			continue
		}
		return domain.Tna{}, err
	}
	return domain.Tna{}, domain.StoreFailureError{Err: lastErr}
}

func (r *TnaRepository) issueWithCode(ctx context.Context, visitorID int64, code string) (domain.Tna, error) {
	var issued models.Tna

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var visitor models.Person
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", visitorID).
			Take(&visitor).Error
		if err != nil {
			return classify(err, "visitor")
		}

		var rows []models.Tna
		err = tx.Where("visitor_id = ?", visitorID).Find(&rows).Error
		if err != nil {
			return err
		}

		now := time.Now()
		active := 0
		for _, row := range rows {
			if row.Status != string(domain.TnaStatusActive) {
				continue
			}
			if row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
				// past expiry, flip under the visitor lock
				err := tx.Model(&models.Tna{}).
					Where("id = ?", row.ID).
					Update("status", string(domain.TnaStatusExpired)).Error
				if err != nil {
					return err
				}
				continue
			}
			active++
		}

		if active >= domain.ActiveTnaLimit {
			return domain.LimitExceededError{Limit: domain.ActiveTnaLimit}
		}

		expires := now.Add(domain.TnaValidity)
		issued = models.Tna{
			Code:      code,
			VisitorID: visitorID,
			Status:    string(domain.TnaStatusActive),
			ExpiresAt: &expires,
		}
		if err := tx.Create(&issued).Error; err != nil {
			return err
		}

		return appendAudit(tx, visitorID, domain.AuditActionTnaIssue, map[string]any{
			"code": code,
		})
	})
	if err != nil {
		return domain.Tna{}, classify(err, "tna")
	}
	return toTna(issued), nil
}

// ListActive returns the visitor's usable TNAs, newest first. Rows past
// their expiry are treated as expired without waiting for a sweep.
func (r *TnaRepository) ListActive(ctx context.Context, visitorID int64) ([]domain.Tna, error) {
	var rows []models.Tna
	err := r.db.WithContext(ctx).
		Where("visitor_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)",
			visitorID, string(domain.TnaStatusActive), time.Now()).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "tnas")
	}

	tnas := make([]domain.Tna, 0, len(rows))
	for _, row := range rows {
		tnas = append(tnas, toTna(row))
	}
	return tnas, nil
}

// Summarize joins each of the visitor's TNAs against its active binding for
// the dashboard. Read-only.
func (r *TnaRepository) Summarize(ctx context.Context, visitorID int64) ([]domain.TnaSummary, error) {
	var rows []models.Tna
	err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "tnas")
	}

	type boundRow struct {
		TnaID       int64
		BaseAddress string
		Identifier  string
		City        string
	}
	var bound []boundRow
	err = r.db.WithContext(ctx).Model(&models.Binding{}).
		Select("bindings.tna_id, properties.base_address, units.identifier, properties.city").
		Joins("JOIN units ON units.id = bindings.unit_id").
		Joins("JOIN properties ON properties.id = units.property_id").
		Joins("JOIN tnas ON tnas.id = bindings.tna_id").
		Where("tnas.visitor_id = ? AND bindings.is_active", visitorID).
		Scan(&bound).Error
	if err != nil {
		return nil, classify(err, "bindings")
	}

	addresses := make(map[int64]string, len(bound))
	for _, b := range bound {
		addresses[b.TnaID] = domain.ComposeAddress(b.BaseAddress, b.Identifier, b.City)
	}

	summaries := make([]domain.TnaSummary, 0, len(rows))
	for _, row := range rows {
		summary := domain.TnaSummary{Tna: toTna(row)}
		if addr, ok := addresses[row.ID]; ok {
			summary.Linked = true
			summary.Address = &addr
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Revoke marks the visitor's TNA as REVOKED. A revoked TNA no longer
// resolves and cannot be linked.
func (r *TnaRepository) Revoke(ctx context.Context, visitorID int64, code string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Tna
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND visitor_id = ?", code, visitorID).
			Take(&row).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Tna{}).
			Where("id = ?", row.ID).
			Update("status", string(domain.TnaStatusRevoked)).Error
		if err != nil {
			return err
		}

		return appendAudit(tx, visitorID, domain.AuditActionTnaRevoke, map[string]any{
			"code": code,
		})
	})
	return classify(err, "tna")
}

// VisitorStats backs the visitor dashboard: total TNAs ever issued and
// shipments currently underway.
func (r *TnaRepository) VisitorStats(ctx context.Context, visitorID int64) (domain.VisitorStats, error) {
	var stats domain.VisitorStats

	err := r.db.WithContext(ctx).Model(&models.Tna{}).
		Where("visitor_id = ?", visitorID).
		Count(&stats.TotalTnas).Error
	if err != nil {
		return domain.VisitorStats{}, classify(err, "tnas")
	}

	err = r.db.WithContext(ctx).Model(&models.Shipment{}).
		Joins("JOIN tnas ON tnas.id = shipments.tna_id").
		Where("tnas.visitor_id = ? AND shipments.status IN ?",
			visitorID,
			[]string{string(domain.ShipmentStatusPending), string(domain.ShipmentStatusInTransit)}).
		Count(&stats.ActiveOperations).Error
	if err != nil {
		return domain.VisitorStats{}, classify(err, "shipments")
	}
	return stats, nil
}

func toTna(row models.Tna) domain.Tna {
	return domain.Tna{
		ID:        row.ID,
		Code:      row.Code,
		VisitorID: row.VisitorID,
		Status:    domain.TnaStatus(row.Status),
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CDate,
	}
}
