package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/service"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

type workingHourHandler struct {
	svc *service.WorkingHourService
	loc *time.Location
}

// ListBySpecialty — ?includeInactive=true показывает и отключённые окна.
func (h *workingHourHandler) ListBySpecialty(c echo.Context) error {
	specialtyID, err := pathID(c, "specialtyId")
	if err != nil {
		return err
	}
	includeInactive, _ := strconv.ParseBool(c.QueryParam("includeInactive"))

	hours, err := h.svc.ListBySpecialty(c.Request().Context(), specialtyID, !includeInactive)
	if err != nil {
		return err
	}
	out := make([]workingHourResponse, 0, len(hours))
	for _, w := range hours {
		out = append(out, toWorkingHourResponse(w))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *workingHourHandler) Create(c echo.Context) error {
	var req workingHourRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	wh, err := h.svc.Create(c.Request().Context(), service.CreateWorkingHourInput{
		SpecialtyID:         req.SpecialtyID,
		DayOfWeek:           time.Weekday(*req.DayOfWeek),
		Interval:            iv,
		SlotDurationMinutes: req.SlotDurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWorkingHourResponse(*wh))
}

func (h *workingHourHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateWorkingHourRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateWorkingHourInput{
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            req.IsActive,
	}
	if req.DayOfWeek != nil {
		d := time.Weekday(*req.DayOfWeek)
		in.DayOfWeek = &d
	}
	if req.StartTime != nil {
		if in.StartTime, err = parseClockPtr(*req.StartTime); err != nil {
			return err
		}
	}
	if req.EndTime != nil {
		if in.EndTime, err = parseClockPtr(*req.EndTime); err != nil {
			return err
		}
	}

	wh, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWorkingHourResponse(*wh))
}

func (h *workingHourHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateSlots: ?fromDate=&toDate=, не больше 7 дней.
func (h *workingHourHandler) GenerateSlots(c echo.Context) error {
	specialtyID, err := pathID(c, "specialtyId")
	if err != nil {
		return err
	}
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	days, err := h.svc.GenerateSlots(c.Request().Context(), specialtyID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDailySlotsResponses(days, h.loc))
}

func parseInterval(start, end string) (calendar.TimeInterval, error) {
	s, err := calendar.ParseClockTime(start)
	if err != nil {
		return calendar.TimeInterval{}, err
	}
	e, err := calendar.ParseClockTime(end)
	if err != nil {
		return calendar.TimeInterval{}, err
	}
	return calendar.NewTimeInterval(s, e)
}

func parseClockPtr(s string) (*calendar.ClockTime, error) {
	c, err := calendar.ParseClockTime(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryDate: обязательная дата из query.
func queryDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return d, nil
}

func dateRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := queryDate(c, "fromDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(c, "toDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
