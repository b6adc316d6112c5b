package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
)

type WorkingHourRepository interface {
	WithTx(tx *gorm.DB) WorkingHourRepository
	GetByID(ctx context.Context, id uuid.UUID) (*model.WorkingHour, error)
	Create(ctx context.Context, wh *model.WorkingHour) error
	Update(ctx context.Context, wh *model.WorkingHour) error
	// Deactivate — мягкое удаление: окно остаётся в истории, но не участвует в расчётах.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// ListBySpecialty: окна специальности, по дню недели и началу.
	ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, onlyActive bool) ([]model.WorkingHour, error)
	ListActiveBySpecialtyAndDay(ctx context.Context, specialtyID uuid.UUID, day time.Weekday) ([]model.WorkingHour, error)
}

type GormWorkingHourRepository struct {
	db *gorm.DB
}

func NewGormWorkingHourRepository(db *gorm.DB) *GormWorkingHourRepository {
	return &GormWorkingHourRepository{db: db}
}

func (r *GormWorkingHourRepository) WithTx(tx *gorm.DB) WorkingHourRepository {
	return &GormWorkingHourRepository{db: tx}
}

func (r *GormWorkingHourRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WorkingHour, error) {
	var wh model.WorkingHour
	if err := r.db.WithContext(ctx).First(&wh, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *GormWorkingHourRepository) Create(ctx context.Context, wh *model.WorkingHour) error {
	return r.db.WithContext(ctx).Create(wh).Error
}

func (r *GormWorkingHourRepository) Update(ctx context.Context, wh *model.WorkingHour) error {
	return r.db.WithContext(ctx).
		Model(wh).
		Select("day_of_week", "start_time", "end_time", "slot_duration_minutes", "is_active").
		Updates(wh).Error
}

func (r *GormWorkingHourRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.WorkingHour{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormWorkingHourRepository) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, onlyActive bool) ([]model.WorkingHour, error) {
	q := r.db.WithContext(ctx).Where("specialty_id = ?", specialtyID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var hours []model.WorkingHour
	if err := q.Order("day_of_week ASC").Order("start_time ASC").Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *GormWorkingHourRepository) ListActiveBySpecialtyAndDay(ctx context.Context, specialtyID uuid.UUID, day time.Weekday) ([]model.WorkingHour, error) {
	var hours []model.WorkingHour
	err := r.db.WithContext(ctx).
		Where("specialty_id = ? AND day_of_week = ? AND is_active = ?", specialtyID, int(day), true).
		Order("start_time ASC").
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}
