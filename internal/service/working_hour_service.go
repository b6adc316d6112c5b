package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

type CreateWorkingHourInput struct {
	SpecialtyID         uuid.UUID
	DayOfWeek           time.Weekday
	Interval            calendar.TimeInterval
	SlotDurationMinutes int // 0: значение по умолчанию
}

// UpdateWorkingHourInput — частичное обновление; nil-поля не меняются.
type UpdateWorkingHourInput struct {
	DayOfWeek           *time.Weekday
	StartTime           *calendar.ClockTime
	EndTime             *calendar.ClockTime
	SlotDurationMinutes *int
	IsActive            *bool
}

// WorkingHourService: управление графиком специальностей.
type WorkingHourService struct {
	db           *gorm.DB
	repos        *repository.Repositories
	availability *calendar.AvailabilityService
	log          zerolog.Logger
}

func NewWorkingHourService(
	db *gorm.DB,
	repos *repository.Repositories,
	availability *calendar.AvailabilityService,
	log zerolog.Logger,
) *WorkingHourService {
	return &WorkingHourService{
		db:           db,
		repos:        repos,
		availability: availability,
		log:          log.With().Str("component", "working_hours").Logger(),
	}
}

func (s *WorkingHourService) ListBySpecialty(ctx context.Context, specialtyID uuid.UUID, onlyActive bool) ([]model.WorkingHour, error) {
	if _, err := s.repos.Specialties.GetByID(ctx, specialtyID); err != nil {
		return nil, notFound(err, "specialty")
	}
	return s.repos.WorkingHours.ListBySpecialty(ctx, specialtyID, onlyActive)
}

// Create добавляет окно; при пересечении с активным окном того же дня возвращает TimeConflict.
func (s *WorkingHourService) Create(ctx context.Context, in CreateWorkingHourInput) (*model.WorkingHour, error) {
	if in.SlotDurationMinutes == 0 {
		in.SlotDurationMinutes = calendar.DefaultSlotDurationMinutes
	}
	if _, err := s.repos.Specialties.GetByID(ctx, in.SpecialtyID); err != nil {
		return nil, notFound(err, "specialty")
	}

	wh := &model.WorkingHour{
		SpecialtyID:         in.SpecialtyID,
		DayOfWeek:           int(in.DayOfWeek),
		StartTime:           model.ClockToDB(in.Interval.Start),
		EndTime:             model.ClockToDB(in.Interval.End),
		SlotDurationMinutes: in.SlotDurationMinutes,
		IsActive:            true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hours := s.repos.WorkingHours.WithTx(tx)
		if err := s.checkConflict(ctx, hours, wh); err != nil {
			return err
		}
		if err := hours.Create(ctx, wh); err != nil {
			return err
		}
		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeWorkingHourChanged, nil, nil, map[string]any{
			"action":       "create",
			"workingHour":  wh.ID.String(),
			"specialtyId":  wh.SpecialtyID.String(),
			"dayOfWeek":    wh.DayOfWeek,
			"interval":     in.Interval.String(),
			"slotDuration": wh.SlotDurationMinutes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("working_hour_id", wh.ID.String()).Str("interval", in.Interval.String()).Msg("working hour created")
	return wh, nil
}

// Update применяет переданные поля и повторно проверяет пересечения.
func (s *WorkingHourService) Update(ctx context.Context, id uuid.UUID, in UpdateWorkingHourInput) (*model.WorkingHour, error) {
	var wh *model.WorkingHour

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hours := s.repos.WorkingHours.WithTx(tx)

		var err error
		wh, err = hours.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "working hour")
		}

		if in.DayOfWeek != nil {
			wh.DayOfWeek = int(*in.DayOfWeek)
		}
		if in.StartTime != nil {
			wh.StartTime = model.ClockToDB(*in.StartTime)
		}
		if in.EndTime != nil {
			wh.EndTime = model.ClockToDB(*in.EndTime)
		}
		if in.SlotDurationMinutes != nil {
			wh.SlotDurationMinutes = *in.SlotDurationMinutes
		}
		if in.IsActive != nil {
			wh.IsActive = *in.IsActive
		}

		if err := s.checkConflict(ctx, hours, wh); err != nil {
			return err
		}
		if err := hours.Update(ctx, wh); err != nil {
			return err
		}
		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeWorkingHourChanged, nil, nil, map[string]any{
			"action":      "update",
			"workingHour": wh.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("working_hour_id", id.String()).Msg("working hour updated")
	return wh, nil
}

// Deactivate: мягкое удаление окна.
func (s *WorkingHourService) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.WorkingHours.WithTx(tx).Deactivate(ctx, id); err != nil {
			return notFound(err, "working hour")
		}
		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeWorkingHourChanged, nil, nil, map[string]any{
			"action":      "deactivate",
			"workingHour": id.String(),
		})
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("working_hour_id", id.String()).Msg("working hour deactivated")
	return nil
}

// GenerateSlots: свободные слоты по графику на каждую дату диапазона (до 7 дней).
func (s *WorkingHourService) GenerateSlots(ctx context.Context, specialtyID uuid.UUID, from, to time.Time) ([]calendar.DailySlots, error) {
	return s.availability.AvailableSlotsForRange(ctx, specialtyID, from, to, calendar.MaxRangeDaysWorkingHours)
}

// checkConflict проверяет окно само по себе и против активных окон специальности.
// Неактивное окно ни с чем не конфликтует.
func (s *WorkingHourService) checkConflict(ctx context.Context, hours repository.WorkingHourRepository, wh *model.WorkingHour) error {
	candidate := wh.ToCalendar()
	if !candidate.Active {
		return calendar.ValidateWorkingHour(candidate)
	}

	existing, err := hours.ListBySpecialty(ctx, wh.SpecialtyID, true)
	if err != nil {
		return fmt.Errorf("load working hours: %w", err)
	}
	return calendar.CheckWorkingHourConflict(candidate, model.WorkingHoursToCalendar(existing))
}
