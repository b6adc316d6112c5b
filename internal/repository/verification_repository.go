package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
)

type VerificationRepository interface {
	WithTx(tx *gorm.DB) VerificationRepository
	Create(ctx context.Context, v *model.SmsVerification) error
	// DeleteByPhone удаляет все прежние коды телефона.
	DeleteByPhone(ctx context.Context, phone string) error
	// FindLatestUsable — последний неиспользованный и неистёкший код.
	FindLatestUsable(ctx context.Context, phone string, now time.Time) (*model.SmsVerification, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

type GormVerificationRepository struct {
	db *gorm.DB
}

func NewGormVerificationRepository(db *gorm.DB) *GormVerificationRepository {
	return &GormVerificationRepository{db: db}
}

func (r *GormVerificationRepository) WithTx(tx *gorm.DB) VerificationRepository {
	return &GormVerificationRepository{db: tx}
}

func (r *GormVerificationRepository) Create(ctx context.Context, v *model.SmsVerification) error {
	v.Phone = NormalizePhone(v.Phone)
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *GormVerificationRepository) DeleteByPhone(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).
		Where("phone = ?", NormalizePhone(phone)).
		Delete(&model.SmsVerification{}).Error
}

func (r *GormVerificationRepository) FindLatestUsable(ctx context.Context, phone string, now time.Time) (*model.SmsVerification, error) {
	var v model.SmsVerification
	err := r.db.WithContext(ctx).
		Where("phone = ? AND is_used = ? AND expires_at > ?", NormalizePhone(phone), false, now).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormVerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.SmsVerification{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}
