package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/internal/administrasi/services"
	"github.com/c14220110/billing-backend/internal/common/middlewares"
	"github.com/c14220110/billing-backend/pkg/utils"
)

type RekamMedisController struct {
	Service *services.RekamMedisService
}

func NewRekamMedisController(service *services.RekamMedisService) *RekamMedisController {
	return &RekamMedisController{Service: service}
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /api/medical-records
func (rc *RekamMedisController) CreateRekamMedis(c echo.Context) error {
	var req models.CreateRekamMedisRequest
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
	actor, _ := middlewares.ActorFromContext(c)

	id, err := rc.Service.CreateRekamMedis(c.Request().Context(), req, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasienNotFound), errors.Is(err, services.ErrRecordNumberTaken):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"status":  http.StatusUnprocessableEntity,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status":  http.StatusInternalServerError,
				"message": "Failed to create rekam medis: " + err.Error(),
				"data":    nil,
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  http.StatusCreated,
		"message": "Rekam medis created successfully",
		"data":    echo.Map{"id": id},
	})
}

// GET /api/medical-records?patient_id=1&status=active
func (rc *RekamMedisController) ListRekamMedis(c echo.Context) error {
	patientID, _ := strconv.ParseInt(c.QueryParam("patient_id"), 10, 64)

	list, err := rc.Service.ListRekamMedis(c.Request().Context(), patientID, c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve rekam medis: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Rekam medis retrieved successfully",
		"data":    list,
	})
}

// GET /api/medical-records/:id
func (rc *RekamMedisController) GetRekamMedis(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "Invalid id rekam medis",
			"data":    nil,
		})
	}

	rm, err := rc.Service.GetRekamMedis(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRekamMedisNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status":  http.StatusNotFound,
				"message": "Rekam medis tidak ditemukan",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve rekam medis: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Rekam medis retrieved successfully",
		"data":    rm,
	})
}

// PUT /api/medical-records/:id/status
func (rc *RekamMedisController) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "Invalid id rekam medis",
			"data":    nil,
		})
	}
	var req models.UpdateRekamMedisStatusRequest
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

	if err := rc.Service.UpdateStatus(c.Request().Context(), id, req); err != nil {
		if errors.Is(err, services.ErrRekamMedisNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status":  http.StatusNotFound,
				"message": "Rekam medis tidak ditemukan",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update status rekam medis: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Status rekam medis updated successfully",
		"data":    nil,
	})
}
