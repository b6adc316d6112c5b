package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/db"
)

type healthHandler struct {
	db *gorm.DB
}

func (h *healthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "clinic-booking",
		"status":  "ok",
	})
}

func (h *healthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready — 503, пока база недоступна.
func (h *healthHandler) Ready(c echo.Context) error {
	if h.db == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "no database"})
	}
	if err := db.Ping(h.db); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
