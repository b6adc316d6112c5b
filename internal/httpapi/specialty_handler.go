package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
)

type specialtyHandler struct {
	svc *service.SpecialtyService
}

func (h *specialtyHandler) List(c echo.Context) error {
	page, err := h.svc.ListActive(c.Request().Context(), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, toSpecialtyResponse))
}

func (h *specialtyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSpecialtyResponse(*sp))
}

func (h *specialtyHandler) Create(c echo.Context) error {
	var req specialtyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sp, err := h.svc.Create(c.Request().Context(), service.CreateSpecialtyInput{
		Name:            req.Name,
		Description:     req.Description,
		HasInstallments: req.HasInstallments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSpecialtyResponse(*sp))
}

func (h *specialtyHandler) SetActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req specialtyActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sp, err := h.svc.SetActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSpecialtyResponse(*sp))
}

// pathID разбирает uuid из параметра пути.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pageRequest — ?page=&pageSize=; мусор заменяется значениями по умолчанию.
func pageRequest(c echo.Context) repository.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("pageSize"))
	return repository.PageRequest{Page: page, PageSize: size}.Normalize()
}
