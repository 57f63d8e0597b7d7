package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/internal/administrasi/services"
	"github.com/c14220110/billing-backend/pkg/utils"
)

type PasienController struct {
	Service *services.PasienService
}

func NewPasienController(service *services.PasienService) *PasienController {
	return &PasienController{Service: service}
}

// POST /api/patients
func (pc *PasienController) RegisterPasien(c echo.Context) error {
	var req models.CreatePasienRequest
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

	id, err := pc.Service.CreatePasien(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrPasienDuplicate) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"status":  http.StatusUnprocessableEntity,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to register pasien: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  http.StatusCreated,
		"message": "Pasien registered successfully",
		"data":    echo.Map{"id": id},
	})
}

// GET /api/patients?q=budi&limit=20&page=1
func (pc *PasienController) ListPasien(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))

	list, err := pc.Service.ListPasien(c.Request().Context(), c.QueryParam("q"), limit, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve pasien list: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Pasien list retrieved successfully",
		"data":    list,
	})
}

// GET /api/patients/:id
func (pc *PasienController) GetPasien(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "Invalid id pasien",
			"data":    nil,
		})
	}

	p, err := pc.Service.GetPasien(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPasienNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status":  http.StatusNotFound,
				"message": "Pasien tidak ditemukan",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve pasien: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Pasien retrieved successfully",
		"data":    p,
	})
}
