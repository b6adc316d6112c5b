package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/lock"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

const (
	lockAttempts   = 5
	lockRetryDelay = 50 * time.Millisecond
)

// Actor — кто выполняет операцию.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

type CreateReservationInput struct {
	UserID      uuid.UUID
	SpecialtyID uuid.UUID
	Date        time.Time
	Interval    calendar.TimeInterval
}

type UpdateReservationInput struct {
	Date     time.Time
	Interval calendar.TimeInterval
}

// ReservationService: жизненный цикл бронирований.
type ReservationService struct {
	db      *gorm.DB
	repos   *repository.Repositories
	checker calendar.Checker
	locker  lock.SlotLocker
	lockTTL time.Duration
	sms     SmsSender
	log     zerolog.Logger
	now     func() time.Time
}

type ReservationOption func(*ReservationService)

// WithSlotLocker включает блокировку дня специальности на время записи.
func WithSlotLocker(l lock.SlotLocker, ttl time.Duration) ReservationOption {
	return func(s *ReservationService) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// WithNotifier: SMS пациенту при смене статуса администратором.
func WithNotifier(sms SmsSender) ReservationOption {
	return func(s *ReservationService) { s.sms = sms }
}

func WithClock(now func() time.Time) ReservationOption {
	return func(s *ReservationService) { s.now = now }
}

func NewReservationService(
	db *gorm.DB,
	repos *repository.Repositories,
	checker calendar.Checker,
	log zerolog.Logger,
	opts ...ReservationOption,
) *ReservationService {
	s := &ReservationService{
		db:      db,
		repos:   repos,
		checker: checker,
		locker:  lock.Noop{},
		lockTTL: 10 * time.Second,
		log:     log.With().Str("component", "reservations").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create создаёт бронирование в статусе pending.
// Проверка и вставка идут в одной транзакции; при гонке за тот же старт
// (нарушение уникального индекса) попытка повторяется один раз, и повторная
// проверка уже видит конкурента.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	if !in.Interval.Valid() {
		return nil, fmt.Errorf("%w: %s", calendar.ErrInvalidInterval, in.Interval)
	}
	if in.Date.IsZero() {
		return nil, invalidArgument("date is required")
	}
	in.Date = utils.DateOnly(in.Date)

	if _, err := ValidateBookingUser(ctx, s.repos.Users, in.UserID); err != nil {
		return nil, err
	}
	if err := s.ensureSpecialtyActive(ctx, in.SpecialtyID); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, in.SpecialtyID, in.Date)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	var created *model.Reservation
	for attempt := 1; attempt <= 2; attempt++ {
		created, err = s.createTx(ctx, in)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.log.Debug().Int("attempt", attempt).Str("specialty_id", in.SpecialtyID.String()).Msg("slot taken concurrently, retrying")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: slot already taken", calendar.ErrTimeConflict)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reservation_id", created.ID.String()).
		Str("user_id", in.UserID.String()).
		Str("date", utils.FormatDate(in.Date)).
		Str("interval", in.Interval.String()).
		Msg("reservation created")

	return s.repos.Reservations.GetByID(ctx, created.ID)
}

func (s *ReservationService) createTx(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	var created *model.Reservation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservations := s.repos.Reservations.WithTx(tx)

		specialtyDay, err := reservations.ListActiveBySpecialtyAndDate(ctx, in.SpecialtyID, in.Date)
		if err != nil {
			return fmt.Errorf("load specialty reservations: %w", err)
		}
		userDay, err := reservations.ListActiveByUserAndDate(ctx, in.UserID, in.Date)
		if err != nil {
			return fmt.Errorf("load user reservations: %w", err)
		}

		req := calendar.BookingRequest{
			UserID:      in.UserID,
			SpecialtyID: in.SpecialtyID,
			Date:        in.Date,
			Interval:    in.Interval,
		}
		if err := s.checker.CanCreate(req, model.ReservationsToCalendar(specialtyDay), model.ReservationsToCalendar(userDay)); err != nil {
			return err
		}
		if err := ensureNoOverlap(ctx, reservations, in.SpecialtyID, in.Date, in.Interval, uuid.Nil); err != nil {
			return err
		}

		r := &model.Reservation{
			UserID:      in.UserID,
			SpecialtyID: in.SpecialtyID,
			Status:      calendar.StatusPending,
		}
		r.SetSchedule(in.Date, in.Interval)
		if err := reservations.Create(ctx, r); err != nil {
			return err
		}

		created = r
		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeReservationCreated,
			&in.UserID, &r.ID, map[string]any{
				"date":     utils.FormatDate(in.Date),
				"interval": in.Interval.String(),
			})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update переносит pending-бронирование владельца на новую дату и время.
// Правило одной записи в день здесь не проверяется повторно.
func (s *ReservationService) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateReservationInput) (*model.Reservation, error) {
	if !in.Interval.Valid() {
		return nil, fmt.Errorf("%w: %s", calendar.ErrInvalidInterval, in.Interval)
	}
	if in.Date.IsZero() {
		return nil, invalidArgument("date is required")
	}
	in.Date = utils.DateOnly(in.Date)

	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	release, err := s.acquire(ctx, current.SpecialtyID, in.Date)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	for attempt := 1; attempt <= 2; attempt++ {
		err = s.updateTx(ctx, id, in)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: slot already taken", calendar.ErrTimeConflict)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("reservation_id", id.String()).Str("interval", in.Interval.String()).Msg("reservation updated")
	return s.repos.Reservations.GetByID(ctx, id)
}

func (s *ReservationService) updateTx(ctx context.Context, id uuid.UUID, in UpdateReservationInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservations := s.repos.Reservations.WithTx(tx)

		r, err := reservations.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}

		others, err := reservations.ListActiveBySpecialtyAndDate(ctx, r.SpecialtyID, in.Date)
		if err != nil {
			return fmt.Errorf("load specialty reservations: %w", err)
		}
		if err := s.checker.CanEdit(r.ToCalendar(), in.Date, in.Interval, model.ReservationsToCalendar(others)); err != nil {
			return err
		}
		if err := ensureNoOverlap(ctx, reservations, r.SpecialtyID, in.Date, in.Interval, r.ID); err != nil {
			return err
		}

		prev := r.Interval()
		prevDate := r.Day()
		r.SetSchedule(in.Date, in.Interval)
		if err := reservations.UpdateSchedule(ctx, r); err != nil {
			return err
		}

		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeReservationUpdated,
			&r.UserID, &r.ID, map[string]any{
				"from": utils.FormatDate(prevDate) + " " + prev.String(),
				"to":   utils.FormatDate(in.Date) + " " + in.Interval.String(),
			})
	})
}

// ensureNoOverlap повторяет проверку пересечения запросом к БД в той же транзакции.
func ensureNoOverlap(
	ctx context.Context,
	reservations repository.ReservationRepository,
	specialtyID uuid.UUID,
	date time.Time,
	iv calendar.TimeInterval,
	excludeID uuid.UUID,
) error {
	overlapping, err := reservations.FindOverlapping(ctx, specialtyID, date, iv, excludeID)
	if err != nil {
		return fmt.Errorf("find overlapping reservations: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("%w: %s overlaps %s", calendar.ErrTimeConflict, iv, overlapping[0].Interval())
	}
	return nil
}

// Cancel: отмена владельцем, не позднее чем за CancelLeadTime до начала.
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservations := s.repos.Reservations.WithTx(tx)

		r, err := reservations.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}
		if r.UserID != actor.UserID {
			return fmt.Errorf("reservation: %w", ErrNotFound)
		}
		if err := s.checker.CanCancel(r.ToCalendar(), s.now()); err != nil {
			return err
		}
		if err := reservations.UpdateStatus(ctx, id, calendar.StatusCancelled); err != nil {
			return err
		}

		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeReservationCancelled,
			&actor.UserID, &id, map[string]any{"by": "owner"})
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("reservation_id", id.String()).Msg("reservation cancelled")
	return nil
}

// ChangeStatus: смена статуса администратором по конечному автомату.
// Отмена pending подчиняется тому же сроку, что и отмена владельцем;
// confirmed -> cancelled срок не проверяет.
func (s *ReservationService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, to calendar.Status) (*model.Reservation, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}

	var from calendar.Status
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservations := s.repos.Reservations.WithTx(tx)

		r, err := reservations.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "reservation")
		}
		from = r.Status
		if err := calendar.Transition(r.Status, to); err != nil {
			return err
		}
		if from == calendar.StatusPending && to == calendar.StatusCancelled {
			if err := s.checker.CanCancel(r.ToCalendar(), s.now()); err != nil {
				return err
			}
		}
		if err := reservations.UpdateStatus(ctx, id, to); err != nil {
			return err
		}

		return recordEvent(ctx, s.repos.Events.WithTx(tx), model.EventTypeReservationStatusChanged,
			&actor.UserID, &id, map[string]any{"from": from, "to": to})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reservation_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("reservation status changed")

	r, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reservation")
	}
	s.notifyStatus(ctx, r)
	return r, nil
}

// notifyStatus: SMS пациенту о подтверждении или отмене; ошибки только логируются.
func (s *ReservationService) notifyStatus(ctx context.Context, r *model.Reservation) {
	if s.sms == nil {
		return
	}

	var text string
	switch r.Status {
	case calendar.StatusConfirmed:
		text = "Your appointment is confirmed: "
	case calendar.StatusCancelled:
		text = "Your appointment was cancelled: "
	default:
		return
	}

	u, err := s.repos.Users.GetByID(ctx, r.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("reservation_id", r.ID.String()).Msg("notify: load user")
		return
	}
	text += calendar.FormatReservation(r.ToCalendar(), s.checker.Location)
	if err := s.sms.Send(ctx, u.Phone, text); err != nil {
		s.log.Warn().Err(err).Str("reservation_id", r.ID.String()).Msg("notify: send sms")
	}
}

// Get возвращает бронирование; не-администратор видит только свои.
func (s *ReservationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Reservation, error) {
	r, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reservation")
	}
	if !actor.Admin && r.UserID != actor.UserID {
		return nil, fmt.Errorf("reservation: %w", ErrNotFound)
	}
	return r, nil
}

// ListOwn: бронирования пользователя; фильтр по пользователю принудительный.
func (s *ReservationService) ListOwn(ctx context.Context, userID uuid.UUID, filter repository.ReservationFilter, page repository.PageRequest) (repository.Page[model.Reservation], error) {
	filter.UserID = &userID
	return s.list(ctx, filter, page)
}

// ListAll: все бронирования (администратор).
func (s *ReservationService) ListAll(ctx context.Context, actor Actor, filter repository.ReservationFilter, page repository.PageRequest) (repository.Page[model.Reservation], error) {
	if !actor.Admin {
		return repository.Page[model.Reservation]{}, ErrForbidden
	}
	return s.list(ctx, filter, page)
}

func (s *ReservationService) list(ctx context.Context, filter repository.ReservationFilter, page repository.PageRequest) (repository.Page[model.Reservation], error) {
	items, total, err := s.repos.Reservations.List(ctx, filter, page)
	if err != nil {
		return repository.Page[model.Reservation]{}, fmt.Errorf("list reservations: %w", err)
	}
	return repository.NewPage(items, total, page), nil
}

// History: журнал аудита бронирования (администратор).
func (s *ReservationService) History(ctx context.Context, actor Actor, id uuid.UUID) ([]model.Event, error) {
	if !actor.Admin {
		return nil, ErrForbidden
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.repos.Events.ListByReservation(ctx, id)
}

// Check: пробная проверка создания без записи (для gRPC CheckReservation).
func (s *ReservationService) Check(ctx context.Context, in CreateReservationInput) error {
	if !in.Interval.Valid() {
		return fmt.Errorf("%w: %s", calendar.ErrInvalidInterval, in.Interval)
	}
	in.Date = utils.DateOnly(in.Date)

	specialtyDay, err := s.repos.Reservations.ListActiveBySpecialtyAndDate(ctx, in.SpecialtyID, in.Date)
	if err != nil {
		return fmt.Errorf("load specialty reservations: %w", err)
	}
	var userDay []model.Reservation
	if in.UserID != uuid.Nil {
		if userDay, err = s.repos.Reservations.ListActiveByUserAndDate(ctx, in.UserID, in.Date); err != nil {
			return fmt.Errorf("load user reservations: %w", err)
		}
	}

	return s.checker.CanCreate(calendar.BookingRequest{
		UserID:      in.UserID,
		SpecialtyID: in.SpecialtyID,
		Date:        in.Date,
		Interval:    in.Interval,
	}, model.ReservationsToCalendar(specialtyDay), model.ReservationsToCalendar(userDay))
}

func (s *ReservationService) ensureSpecialtyActive(ctx context.Context, id uuid.UUID) error {
	sp, err := s.repos.Specialties.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSpecialtyInactive
	}
	if err != nil {
		return fmt.Errorf("load specialty: %w", err)
	}
	if !sp.IsActive {
		return ErrSpecialtyInactive
	}
	return nil
}

// acquire берёт блокировку дня специальности с несколькими попытками.
// Если хранилище блокировок недоступно, работаем без неё: целостность
// всё равно держит транзакция и уникальный индекс.
func (s *ReservationService) acquire(ctx context.Context, specialtyID uuid.UUID, date time.Time) (lock.Release, error) {
	key := lock.SlotKey(specialtyID, date)

	for attempt := 1; ; attempt++ {
		release, err := s.locker.Acquire(ctx, key, s.lockTTL)
		switch {
		case err == nil:
			return release, nil
		case !errors.Is(err, lock.ErrLocked):
			s.log.Warn().Err(err).Str("key", key).Msg("slot lock unavailable, continuing without it")
			return func(context.Context) error { return nil }, nil
		case attempt >= lockAttempts:
			return nil, fmt.Errorf("%w: slot is being booked, try again", calendar.ErrTimeConflict)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

func (s *ReservationService) release(ctx context.Context, release lock.Release) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("release slot lock")
	}
}
