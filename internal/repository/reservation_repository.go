package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

// ReservationFilter — необязательные фильтры списка бронирований.
type ReservationFilter struct {
	UserID      *uuid.UUID
	SpecialtyID *uuid.UUID
	Status      *calendar.Status
	Date        *time.Time
}

type ReservationRepository interface {
	WithTx(tx *gorm.DB) ReservationRepository
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// UpdateSchedule сохраняет новую дату и интервал.
	UpdateSchedule(ctx context.Context, r *model.Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status calendar.Status) error
	// List: список с фильтрами и пагинацией, по дате и времени начала.
	List(ctx context.Context, filter ReservationFilter, page PageRequest) ([]model.Reservation, int64, error)
	ListActiveBySpecialtyAndDate(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]model.Reservation, error)
	ListActiveBySpecialtyInRange(ctx context.Context, specialtyID uuid.UUID, from, to time.Time) ([]model.Reservation, error)
	ListActiveByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Reservation, error)
	// FindOverlapping ищет активные бронирования специальности на дату,
	// пересекающиеся с iv, кроме excludeID.
	FindOverlapping(ctx context.Context, specialtyID uuid.UUID, date time.Time, iv calendar.TimeInterval, excludeID uuid.UUID) ([]model.Reservation, error)
}

// Реализация на GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	return &GormReservationRepository{db: tx}
}

func dateParam(t time.Time) datatypes.Date {
	return datatypes.Date(utils.DateOnly(t))
}

func (r *GormReservationRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status <> ?", calendar.StatusCancelled)
}

func (r *GormReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.db.WithContext(ctx).Preload("Specialty").First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormReservationRepository) UpdateSchedule(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", res.ID).
		Updates(map[string]any{
			"date":       res.Date,
			"start_time": res.StartTime,
			"end_time":   res.EndTime,
		}).Error
}

func (r *GormReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status calendar.Status) error {
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReservationRepository) List(
	ctx context.Context,
	filter ReservationFilter,
	page PageRequest,
) ([]model.Reservation, int64, error) {
	var (
		reservations []model.Reservation
		total        int64
	)

	q := r.db.WithContext(ctx).Model(&model.Reservation{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.SpecialtyID != nil {
		q = q.Where("specialty_id = ?", *filter.SpecialtyID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", dateParam(*filter.Date))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Specialty").Preload("User").
		Order("date ASC").Order("start_time ASC").
		Limit(page.Limit()).Offset(page.Offset()).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

func (r *GormReservationRepository) ListActiveBySpecialtyAndDate(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.active(ctx).
		Where("specialty_id = ? AND date = ?", specialtyID, dateParam(date)).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormReservationRepository) ListActiveBySpecialtyInRange(ctx context.Context, specialtyID uuid.UUID, from, to time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.active(ctx).
		Where("specialty_id = ?", specialtyID).
		Where("date >= ? AND date <= ?", dateParam(from), dateParam(to)).
		Order("date ASC").Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormReservationRepository) ListActiveByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.active(ctx).
		Where("user_id = ? AND date = ?", userID, dateParam(date)).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormReservationRepository) FindOverlapping(
	ctx context.Context,
	specialtyID uuid.UUID,
	date time.Time,
	iv calendar.TimeInterval,
	excludeID uuid.UUID,
) ([]model.Reservation, error) {
	start, end := model.ClockToDB(iv.Start), model.ClockToDB(iv.End)

	q := r.active(ctx).
		Where("specialty_id = ? AND date = ?", specialtyID, dateParam(date)).
		Where(
			r.db.Where("start_time <= ? AND end_time > ?", start, start).
				Or("start_time < ? AND end_time >= ?", end, end).
				Or("start_time >= ? AND end_time <= ?", start, end),
		)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var reservations []model.Reservation
	if err := q.Order("start_time ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
