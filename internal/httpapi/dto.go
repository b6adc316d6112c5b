package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

// auth

type sendVerificationRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10,max=14"`
}

type registerRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	NationalID  string `json:"nationalId" validate:"required,numeric,max=11"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10,max=14"`
}

type verifyPhoneRequest struct {
	PhoneNumber      string `json:"phoneNumber" validate:"required,min=10,max=14"`
	VerificationCode string `json:"verificationCode" validate:"required,len=6,numeric"`
}

type userResponse struct {
	ID              uuid.UUID      `json:"id"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	PhoneNumber     string         `json:"phoneNumber"`
	NationalID      string         `json:"nationalId"`
	IsPhoneVerified bool           `json:"isPhoneVerified"`
	Role            model.UserRole `json:"role"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNumber:     u.Phone,
		NationalID:      u.NationalID,
		IsPhoneVerified: u.IsPhoneVerified,
		Role:            u.Role,
	}
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// specialties

type specialtyRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description" validate:"max=500"`
	HasInstallments bool   `json:"hasInstallments"`
}

type specialtyActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type specialtyResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	HasInstallments bool      `json:"hasInstallments"`
	IsActive        bool      `json:"isActive"`
}

func toSpecialtyResponse(s model.Specialty) specialtyResponse {
	return specialtyResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		HasInstallments: s.HasInstallments,
		IsActive:        s.IsActive,
	}
}

// working hours

type workingHourRequest struct {
	SpecialtyID         uuid.UUID `json:"specialtyId" validate:"required"`
	DayOfWeek           *int      `json:"dayOfWeek" validate:"required,min=0,max=6"`
	StartTime           string    `json:"startTime" validate:"required"`
	EndTime             string    `json:"endTime" validate:"required"`
	SlotDurationMinutes int       `json:"slotDurationMinutes" validate:"min=0,max=480"`
}

type updateWorkingHourRequest struct {
	DayOfWeek           *int    `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
	StartTime           *string `json:"startTime"`
	EndTime             *string `json:"endTime"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes" validate:"omitempty,min=1,max=480"`
	IsActive            *bool   `json:"isActive"`
}

type workingHourResponse struct {
	ID                  uuid.UUID          `json:"id"`
	SpecialtyID         uuid.UUID          `json:"specialtyId"`
	DayOfWeek           int                `json:"dayOfWeek"`
	DayName             string             `json:"dayName"`
	StartTime           calendar.ClockTime `json:"startTime"`
	EndTime             calendar.ClockTime `json:"endTime"`
	SlotDurationMinutes int                `json:"slotDurationMinutes"`
	IsActive            bool               `json:"isActive"`
}

func toWorkingHourResponse(w model.WorkingHour) workingHourResponse {
	return workingHourResponse{
		ID:                  w.ID,
		SpecialtyID:         w.SpecialtyID,
		DayOfWeek:           w.DayOfWeek,
		DayName:             time.Weekday(w.DayOfWeek).String(),
		StartTime:           model.ClockFromDB(w.StartTime),
		EndTime:             model.ClockFromDB(w.EndTime),
		SlotDurationMinutes: w.SlotDurationMinutes,
		IsActive:            w.IsActive,
	}
}

// reservations

type createReservationRequest struct {
	SpecialtyID     uuid.UUID `json:"specialtyId" validate:"required"`
	ReservationDate string    `json:"reservationDate" validate:"required"`
	StartTime       string    `json:"startTime" validate:"required"`
	EndTime         string    `json:"endTime" validate:"required"`
}

// updateReservationRequest — незаданные поля берутся из текущего бронирования.
type updateReservationRequest struct {
	ReservationDate *string `json:"reservationDate"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed Pending Confirmed Cancelled Completed"`
}

type reservationResponse struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"userId"`
	UserName        string             `json:"userName,omitempty"`
	SpecialtyID     uuid.UUID          `json:"specialtyId"`
	SpecialtyName   string             `json:"specialtyName,omitempty"`
	ReservationDate string             `json:"reservationDate"`
	StartTime       calendar.ClockTime `json:"startTime"`
	EndTime         calendar.ClockTime `json:"endTime"`
	Status          calendar.Status    `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func toReservationResponse(r model.Reservation) reservationResponse {
	iv := r.Interval()
	out := reservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		SpecialtyID:     r.SpecialtyID,
		ReservationDate: utils.FormatDate(r.Day()),
		StartTime:       iv.Start,
		EndTime:         iv.End,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.User != nil {
		out.UserName = r.User.FullName()
	}
	if r.Specialty != nil {
		out.SpecialtyName = r.Specialty.Name
	}
	return out
}

type eventResponse struct {
	EventType model.EventType `json:"eventType"`
	CreatedAt time.Time       `json:"createdAt"`
	UserID    *uuid.UUID      `json:"userId,omitempty"`
	Details   any             `json:"details,omitempty"`
}

func toEventResponse(e model.Event) eventResponse {
	out := eventResponse{EventType: e.EventType, CreatedAt: e.CreatedAt, UserID: e.UserID}
	if len(e.Details) > 0 {
		out.Details = e.Details
	}
	return out
}

// slots

type slotResponse struct {
	StartTime   calendar.ClockTime `json:"startTime"`
	EndTime     calendar.ClockTime `json:"endTime"`
	IsAvailable bool               `json:"isAvailable"`
	Display     string             `json:"display,omitempty"`
}

type dailySlotsResponse struct {
	Date      string         `json:"date"`
	DayOfWeek int            `json:"dayOfWeek"`
	DayName   string         `json:"dayName"`
	Slots     []slotResponse `json:"slots"`
}

func toSlotResponses(date time.Time, slots []calendar.Slot, loc *time.Location) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			StartTime:   s.Start,
			EndTime:     s.End,
			IsAvailable: s.Available,
			Display:     calendar.FormatSlot(date, s.TimeInterval, loc),
		})
	}
	return out
}

func toDailySlotsResponses(days []calendar.DailySlots, loc *time.Location) []dailySlotsResponse {
	out := make([]dailySlotsResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dailySlotsResponse{
			Date:      utils.FormatDate(d.Date),
			DayOfWeek: int(d.Weekday),
			DayName:   d.Weekday.String(),
			Slots:     toSlotResponses(d.Date, d.Slots, loc),
		})
	}
	return out
}
