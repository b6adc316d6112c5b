// Package httpapi — REST API клиники поверх echo.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/service"
)

// Deps: всё, что нужно обработчикам.
type Deps struct {
	DB           *gorm.DB
	Auth         *service.AuthService
	Tokens       *service.TokenManager
	Specialties  *service.SpecialtyService
	WorkingHours *service.WorkingHourService
	Reservations *service.ReservationService
	Availability *calendar.AvailabilityService
	Checker      calendar.Checker
	Log          zerolog.Logger
	CORSOrigins  []string
}

// NewServer собирает echo с middleware и маршрутами.
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(d.Log)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(Recovery(d.Log))
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(Authenticate(d.Tokens))

	health := &healthHandler{db: d.DB}
	e.GET("/", health.Root)
	e.GET("/health", health.Health)
	e.GET("/ready", health.Ready)

	api := e.Group("/api")
	admin := RequireRole(model.RoleAdmin)

	auth := &authHandler{svc: d.Auth}
	api.POST("/auth/send-verification", auth.SendVerification)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/verify-phone", auth.VerifyPhone)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/register-admin", auth.RegisterAdmin, admin)

	sp := &specialtyHandler{svc: d.Specialties}
	api.GET("/specialties", sp.List)
	api.GET("/specialties/:id", sp.Get)
	api.POST("/specialties", sp.Create, admin)
	api.PATCH("/specialties/:id/active", sp.SetActive, admin)

	wh := &workingHourHandler{svc: d.WorkingHours, loc: d.Checker.Location}
	api.GET("/workinghours/specialty/:specialtyId", wh.ListBySpecialty, admin)
	api.GET("/workinghours/generate-slots/:specialtyId", wh.GenerateSlots)
	api.POST("/workinghours", wh.Create, admin)
	api.PUT("/workinghours/:id", wh.Update, admin)
	api.DELETE("/workinghours/:id", wh.Deactivate, admin)

	rs := &reservationHandler{
		svc:          d.Reservations,
		specialties:  d.Specialties,
		availability: d.Availability,
		checker:      d.Checker,
	}
	api.GET("/reservations/available-times", rs.AvailableTimes)
	api.GET("/reservations/available", rs.Available)
	api.GET("/reservations/schedule", rs.DaySchedule, admin)
	api.GET("/reservations/all", rs.ListAll, admin)
	api.GET("/reservations", rs.ListOwn, RequireUser)
	api.POST("/reservations", rs.Create, RequireUser)
	api.GET("/reservations/:id", rs.Get, RequireUser)
	api.PUT("/reservations/:id", rs.Update, RequireUser)
	api.DELETE("/reservations/:id", rs.Cancel, RequireUser)
	api.PATCH("/reservations/:id/status", rs.ChangeStatus, admin)
	api.GET("/reservations/:id/history", rs.History, admin)

	return e
}
