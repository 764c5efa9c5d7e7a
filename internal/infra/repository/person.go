package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/infra/database/models"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Create(ctx context.Context, name, email, passwordHash string, role domain.Role, idNumber string) (domain.Person, error) {
	row := models.Person{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(role),
		IDNumber:     idNumber,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return domain.Person{}, classify(err, "person")
	}
	return toPerson(row), nil
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (domain.Person, string, error) {
	var row models.Person
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if err != nil {
		return domain.Person{}, "", classify(err, "person")
	}
	return toPerson(row), row.PasswordHash, nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id int64) (domain.Person, error) {
	var row models.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return domain.Person{}, classify(err, "person")
	}
	return toPerson(row), nil
}

func toPerson(row models.Person) domain.Person {
	return domain.Person{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      domain.Role(row.Role),
		IDNumber:  row.IDNumber,
		CreatedAt: row.CDate,
	}
}
