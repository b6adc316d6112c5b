package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	calendarpb "github.com/Leganyst/clinic-booking/internal/api/calendar/v1"
	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

// CalendarService — gRPC-доступ к расчёту свободного времени.
type CalendarService struct {
	calendarpb.UnimplementedCalendarServiceServer

	availability *calendar.AvailabilityService
	reservations *ReservationService
}

func NewCalendarService(availability *calendar.AvailabilityService, reservations *ReservationService) *CalendarService {
	return &CalendarService{
		availability: availability,
		reservations: reservations,
	}
}

// ListAvailableSlots: свободные слоты специальности на дату.
func (s *CalendarService) ListAvailableSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := calendarpb.ParseListSlotsRequest(req)

	specialtyID, err := uuid.Parse(in.SpecialtyID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "specialty_id is required")
	}
	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "date: %v", err)
	}

	slots, err := s.availability.AvailableSlotsForDay(ctx, specialtyID, date)
	if err != nil {
		return nil, toStatus(err)
	}
	return calendarpb.SlotsResponse(toPBSlots(slots)), nil
}

// ListAvailableSlotsRange: свободные слоты по датам диапазона (до 30 дней).
func (s *CalendarService) ListAvailableSlotsRange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := calendarpb.ParseListSlotsRangeRequest(req)

	specialtyID, err := uuid.Parse(in.SpecialtyID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "specialty_id is required")
	}
	from, err := utils.ParseDate(in.FromDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "from_date: %v", err)
	}
	to, err := utils.ParseDate(in.ToDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "to_date: %v", err)
	}

	days, err := s.availability.AvailableSlotsForRange(ctx, specialtyID, from, to, calendar.MaxRangeDaysAvailability)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]calendarpb.Day, 0, len(days))
	for _, d := range days {
		out = append(out, calendarpb.Day{
			Date:      utils.FormatDate(d.Date),
			DayOfWeek: int(d.Weekday),
			Slots:     toPBSlots(d.Slots),
		})
	}
	return calendarpb.DaysResponse(out), nil
}

// CheckReservation: пробная проверка правил создания без записи.
// Отказ правила возвращается в ответе, а не как ошибка RPC.
func (s *CalendarService) CheckReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := calendarpb.ParseCheckReservationRequest(req)

	specialtyID, err := uuid.Parse(in.SpecialtyID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "specialty_id is required")
	}
	var userID uuid.UUID
	if in.UserID != "" {
		if userID, err = uuid.Parse(in.UserID); err != nil {
			return nil, status.Error(codes.InvalidArgument, "bad user_id")
		}
	}
	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "date: %v", err)
	}
	start, err := calendar.ParseClockTime(in.StartTime)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "start_time: %v", err)
	}
	end, err := calendar.ParseClockTime(in.EndTime)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "end_time: %v", err)
	}

	err = s.reservations.Check(ctx, CreateReservationInput{
		UserID:      userID,
		SpecialtyID: specialtyID,
		Date:        date,
		Interval:    calendar.TimeInterval{Start: start, End: end},
	})
	if calendar.IsRejection(err) {
		return calendarpb.CheckResult{Reason: string(calendar.KindOf(err))}.Proto(), nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return calendarpb.CheckResult{Allowed: true}.Proto(), nil
}

func toPBSlots(slots []calendar.Slot) []calendarpb.Slot {
	out := make([]calendarpb.Slot, 0, len(slots))
	for _, sl := range slots {
		out = append(out, calendarpb.Slot{StartTime: sl.Start.String(), EndTime: sl.End.String()})
	}
	return out
}

// toStatus переводит ошибки сервиса в коды gRPC.
func toStatus(err error) error {
	switch calendar.KindOf(err) {
	case calendar.KindInvalidInterval, calendar.KindInvalidRange, calendar.KindRangeTooLarge:
		return status.Error(codes.InvalidArgument, err.Error())
	case calendar.KindTimeConflict, calendar.KindDuplicateDayBooking:
		return status.Error(codes.AlreadyExists, err.Error())
	case calendar.KindNotEditable, calendar.KindAlreadyCancelled, calendar.KindAlreadyCompleted, calendar.KindTooLate:
		return status.Error(codes.FailedPrecondition, err.Error())
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSpecialtyInactive), errors.Is(err, ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Errorf(codes.Internal, "%v", err)
}
