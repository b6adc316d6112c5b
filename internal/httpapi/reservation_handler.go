package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

type reservationHandler struct {
	svc          *service.ReservationService
	specialties  *service.SpecialtyService
	availability *calendar.AvailabilityService
	checker      calendar.Checker
}

func (h *reservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date, err := utils.ParseDate(req.ReservationDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservationDate")
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	r, err := h.svc.Create(c.Request().Context(), service.CreateReservationInput{
		UserID:      actor(c).UserID,
		SpecialtyID: req.SpecialtyID,
		Date:        date,
		Interval:    iv,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(*r))
}

func (h *reservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(*r))
}

func (h *reservationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	who := actor(c)
	current, err := h.svc.Get(ctx, who, id)
	if err != nil {
		return err
	}

	in := service.UpdateReservationInput{Date: current.Day(), Interval: current.Interval()}
	if req.ReservationDate != nil {
		if in.Date, err = utils.ParseDate(*req.ReservationDate); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid reservationDate")
		}
	}
	if req.StartTime != nil {
		if in.Interval.Start, err = calendar.ParseClockTime(*req.StartTime); err != nil {
			return err
		}
	}
	if req.EndTime != nil {
		if in.Interval.End, err = calendar.ParseClockTime(*req.EndTime); err != nil {
			return err
		}
	}

	r, err := h.svc.Update(ctx, who, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(*r))
}

func (h *reservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Cancel(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "reservation cancelled"})
}

func (h *reservationHandler) ChangeStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	to, err := calendar.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	r, err := h.svc.ChangeStatus(c.Request().Context(), actor(c), id, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(*r))
}

func (h *reservationHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	events, err := h.svc.History(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return c.JSON(http.StatusOK, out)
}

// ListOwn — бронирования текущего пользователя (?status=&date=&specialtyId=).
func (h *reservationHandler) ListOwn(c echo.Context) error {
	filter, err := reservationFilter(c)
	if err != nil {
		return err
	}
	page, err := h.svc.ListOwn(c.Request().Context(), actor(c).UserID, filter, pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, toReservationResponse))
}

// ListAll: все бронирования, дополнительно ?userId=.
func (h *reservationHandler) ListAll(c echo.Context) error {
	filter, err := reservationFilter(c)
	if err != nil {
		return err
	}
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		filter.UserID = &id
	}
	page, err := h.svc.ListAll(c.Request().Context(), actor(c), filter, pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, toReservationResponse))
}

// AvailableTimes: свободные слоты в дневном окне клиники 08:00–20:00,
// без учёта графика специальности (?date=&specialtyId=&durationMinutes=30).
func (h *reservationHandler) AvailableTimes(c echo.Context) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return err
	}
	specialtyID, err := h.activeSpecialty(c)
	if err != nil {
		return err
	}
	duration := calendar.DefaultSlotDurationMinutes
	if raw := c.QueryParam("durationMinutes"); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid durationMinutes")
		}
	}

	slots, err := h.availability.AvailableSlotsInWindow(c.Request().Context(), specialtyID, date, calendar.DefaultDayWindow, duration)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSlotResponses(date, slots, h.checker.Location))
}

// Available: свободные слоты по графику специальности (?specialtyId=&fromDate=&toDate=, до 30 дней).
func (h *reservationHandler) Available(c echo.Context) error {
	specialtyID, err := h.activeSpecialty(c)
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	days, err := h.availability.AvailableSlotsForRange(c.Request().Context(), specialtyID, from, to, calendar.MaxRangeDaysAvailability)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDailySlotsResponses(days, h.checker.Location))
}

// DaySchedule: все слоты дня с признаком занятости (?specialtyId=&date=).
func (h *reservationHandler) DaySchedule(c echo.Context) error {
	specialtyID, err := queryID(c, "specialtyId")
	if err != nil {
		return err
	}
	date, err := queryDate(c, "date")
	if err != nil {
		return err
	}
	slots, err := h.availability.DaySchedule(c.Request().Context(), specialtyID, date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSlotResponses(date, slots, h.checker.Location))
}

func (h *reservationHandler) activeSpecialty(c echo.Context) (uuid.UUID, error) {
	id, err := queryID(c, "specialtyId")
	if err != nil {
		return uuid.Nil, err
	}
	sp, err := h.specialties.Get(c.Request().Context(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if !sp.IsActive {
		return uuid.Nil, service.ErrSpecialtyInactive
	}
	return id, nil
}

func queryID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.QueryParam(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	return id, nil
}

func reservationFilter(c echo.Context) (repository.ReservationFilter, error) {
	var f repository.ReservationFilter
	if raw := c.QueryParam("status"); raw != "" {
		st, err := calendar.ParseStatus(raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		f.Date = &d
	}
	if raw := c.QueryParam("specialtyId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid specialtyId")
		}
		f.SpecialtyID = &id
	}
	return f, nil
}
