package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang.org/x/crypto/bcrypt"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

// SeedDemoPersons creates one visitor, one owner and one carrier for local
// development. Existing emails are left untouched.
func SeedDemoPersons(db *gorm.DB) error {
	persons := []struct {
		name     string
		email    string
		role     domain.Role
		idNumber string
	}{
		{"John Visitor", "visitor@example.com", domain.RoleVisitor, "V12345"},
		{"Sarah Owner", "owner@example.com", domain.RoleOwner, "O67890"},
		{"Fast Delivery Co", "carrier@example.com", domain.RoleCarrier, "C11223"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, p := range persons {
		row := models.Person{
			Name:         p.name,
			Email:        p.email,
			PasswordHash: string(hash),
			Role:         string(p.role),
			IDNumber:     p.idNumber,
		}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}
