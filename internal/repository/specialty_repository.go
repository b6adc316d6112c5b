package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
)

type SpecialtyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Specialty, error)
	Create(ctx context.Context, specialty *model.Specialty) error
	Update(ctx context.Context, specialty *model.Specialty) error
	List(ctx context.Context, onlyActive bool, page PageRequest) ([]model.Specialty, int64, error)
}

type GormSpecialtyRepository struct {
	db *gorm.DB
}

func NewGormSpecialtyRepository(db *gorm.DB) *GormSpecialtyRepository {
	return &GormSpecialtyRepository{db: db}
}

func (r *GormSpecialtyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	var s model.Specialty
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSpecialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	return r.db.WithContext(ctx).Create(specialty).Error
}

func (r *GormSpecialtyRepository) Update(ctx context.Context, specialty *model.Specialty) error {
	return r.db.WithContext(ctx).
		Model(specialty).
		Select("name", "description", "has_installments", "is_active").
		Updates(specialty).Error
}

func (r *GormSpecialtyRepository) List(ctx context.Context, onlyActive bool, page PageRequest) ([]model.Specialty, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Specialty{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var specialties []model.Specialty
	if err := q.Order("name ASC").Limit(page.Limit()).Offset(page.Offset()).Find(&specialties).Error; err != nil {
		return nil, 0, err
	}
	return specialties, total, nil
}
