package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Leganyst/clinic-booking/internal/service"
)

type authHandler struct {
	svc *service.AuthService
}

func (h *authHandler) SendVerification(c echo.Context) error {
	var req sendVerificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.SendVerificationCode(c.Request().Context(), req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification code sent"})
}

func (h *authHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Phone:      req.PhoneNumber,
	})
	if errors.Is(err, service.ErrSmsFailed) && u != nil {
		return c.JSON(http.StatusAccepted, messageResponse{Message: "user registered but verification code was not sent"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// RegisterAdmin — только для администраторов; первого создаёт команда create-admin.
func (h *authHandler) RegisterAdmin(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.RegisterAdmin(c.Request().Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Phone:      req.PhoneNumber,
	})
	if errors.Is(err, service.ErrSmsFailed) && u != nil {
		return c.JSON(http.StatusAccepted, toUserResponse(u))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *authHandler) VerifyPhone(c echo.Context) error {
	var req verifyPhoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.svc.VerifyPhone(c.Request().Context(), req.PhoneNumber, req.VerificationCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

// Login отправляет код; токен выдаёт verify-phone.
func (h *authHandler) Login(c echo.Context) error {
	var req sendVerificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.Login(c.Request().Context(), req.PhoneNumber); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "verification code sent"})
}
