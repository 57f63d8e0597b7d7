package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/internal/administrasi/services"
	"github.com/c14220110/billing-backend/pkg/utils"
)

type AdministrasiController struct {
	Service *services.AdministrasiService
	JWT     *utils.JWTManager
	Log     *zap.Logger
}

func NewAdministrasiController(service *services.AdministrasiService, jm *utils.JWTManager, log *zap.Logger) *AdministrasiController {
	return &AdministrasiController{Service: service, JWT: jm, Log: log}
}

// Login menangani POST /api/auth/login untuk admin RS dan admin BPJS.
func (ac *AdministrasiController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	if err := c.Validate(&req); err != nil {
		return utils.ValidationFailed(c, err)
	}

	user, err := ac.Service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"status":  http.StatusUnauthorized,
				"message": "Invalid username or password",
				"data":    nil,
			})
		}
		ac.Log.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to authenticate",
			"data":    nil,
		})
	}

	token, exp, err := ac.JWT.GenerateJWTToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		ac.Log.Error("generate token failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to generate token",
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Login successful",
		"data": echo.Map{
			"user":       user,
			"token":      token,
			"expired_at": exp,
		},
	})
}
